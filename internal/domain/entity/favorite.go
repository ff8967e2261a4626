package entity

import (
	"fmt"
	"time"
)

// Favorite is a "likes" document linking a user to a pyme they follow.
type Favorite struct {
	ID        string    `json:"id" firestore:"-"`
	UserID    string    `json:"userId" firestore:"userId"`
	PymeID    string    `json:"pymeId" firestore:"pymeId"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

func FavoriteID(userID, pymeID string) string {
	return fmt.Sprintf("%s_%s", userID, pymeID)
}
