package entity

import "time"

type Question struct {
	ID        string    `json:"id" firestore:"-"`
	Email     string    `json:"correo" firestore:"correo"`
	Text      string    `json:"pregunta" firestore:"pregunta"`
	CreatedAt time.Time `json:"created_time" firestore:"created_time"`
}

type SupportTicket struct {
	ID        string    `json:"id" firestore:"-"`
	Email     string    `json:"correo" firestore:"correo"`
	Subject   string    `json:"asunto" firestore:"asunto"`
	Message   string    `json:"mensaje" firestore:"mensaje"`
	CreatedAt time.Time `json:"created_time" firestore:"created_time"`
}
