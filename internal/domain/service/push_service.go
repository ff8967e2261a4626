package service

import "context"

// PushMessage is the JSON body accepted by the push gateway.
type PushMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// PushNotifier delivers a single notification; the outcome is only reported, never retried.
type PushNotifier interface {
	Send(ctx context.Context, message PushMessage) bool
}
