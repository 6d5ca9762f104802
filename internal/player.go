package internal

type PlayerSession struct {
	Id    string `json:"id"`
	Ready bool   `json:"ready"`
	Score int    `json:"score"`

	Conn Peer `json:"-"`
}

type PlayerSnapshot struct {
	ID    string `json:"id"`
	Ready bool   `json:"ready"`
	Score int    `json:"score"`
}

func NewPlayerSession(conn Peer) *PlayerSession {
	return &PlayerSession{
		Id:   conn.ID(),
		Conn: conn,
	}
}

func CreatePlayerSnapshot(p *PlayerSession) PlayerSnapshot {
	return PlayerSnapshot{
		ID:    p.Id,
		Ready: p.Ready,
		Score: p.Score,
	}
}
