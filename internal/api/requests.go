package api

import (
	"time"

	"lineup/internal/schedule"
)

type errorResponse struct {
	Error string `json:"error"`
}

type createSessionRequest struct {
	EventID  string    `json:"event_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

type sessionResponse struct {
	SessionID string               `json:"session_id"`
	EventID   string               `json:"event_id"`
	Window    schedule.Window      `json:"window"`
	Roster    []schedule.Performer `json:"roster"`
	Snapshot  schedule.Snapshot    `json:"snapshot"`
}

type addStageRequest struct {
	Name string `json:"name"`
}

type dragRequest struct {
	PerformerID string `json:"performer_id"`
}

type dropRequest struct {
	Day     string `json:"day"`
	Hour    string `json:"hour"`
	StageID string `json:"stage_id"`
}

type placeRequest struct {
	PerformerID string `json:"performer_id"`
	Day         string `json:"day"`
	Hour        string `json:"hour"`
	StageID     string `json:"stage_id"`
}

type editSlotRequest struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	StageID string `json:"stage_id"`
}

type toggleBlackoutRequest struct {
	Day  string `json:"day"`
	Hour string `json:"hour"`
}

type toggleBlackoutResponse struct {
	Blocked bool `json:"blocked"`
}

type hourCountResponse struct {
	Hour    string `json:"hour"`
	StageID string `json:"stage_id"`
	Count   int    `json:"count"`
}

type bulkDeleteResponse struct {
	Removed int `json:"removed"`
}
