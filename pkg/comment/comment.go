package comment

import "time"

type CommentId int64

type Comment struct {
	Id      CommentId `json:"id"`
	Author  string    `json:"user"`
	Created time.Time `json:"date"`
	Body    string    `json:"text"`
}
