package events

import (
	"github.com/maxaizer/lead-dorker/internal/domain/models"
)

var QuerySearchedTopic = "QuerySearchedEvent"

type QuerySearched struct {
	Position int
	Query    string
	Results  int
	Err      error
}

var SessionCompletedTopic = "SessionCompletedEvent"

type SessionCompleted struct {
	Session      models.SearchSession
	TotalResults int
}
