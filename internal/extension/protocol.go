// Package extension defines the messages exchanged between the browser
// extension surfaces and the tracker, and the session that holds the
// problem currently open in the browser.
package extension

import (
	"encoding/json"
	"strings"

	"github.com/vytor/leettrack/internal/errors"
	"github.com/vytor/leettrack/internal/models"
)

type Kind string

const (
	KindContentReady      Kind = "CONTENT_READY"
	KindProblemDetected   Kind = "PROBLEM_DETECTED"
	KindProblemCleared    Kind = "PROBLEM_CLEARED"
	KindAddProblem        Kind = "ADD_PROBLEM_TO_TRACKER"
	KindGetCurrentProblem Kind = "GET_CURRENT_PROBLEM"
	KindSidePanelReady    Kind = "SIDE_PANEL_READY"
	KindPing              Kind = "PING"
)

// Envelope is the wire form of every message.
type Envelope struct {
	Kind    Kind            `json:"type"`
	TabID   int             `json:"tabId,omitempty"`
	Payload json.RawMessage `json:"data,omitempty"`
}

// Message is one of the typed messages below. The set is closed.
type Message interface {
	Kind() Kind
	message()
}

// ContentReady is sent by the page script once it can answer queries.
type ContentReady struct {
	TabID int
}

// ProblemDetected carries what the page script scraped from a problem page.
type ProblemDetected struct {
	TabID   int
	Problem models.DetectedProblem
}

// ProblemCleared reports that the tab left a problem page.
type ProblemCleared struct {
	TabID int
}

// AddProblemToTracker asks for the detected problem to be saved.
type AddProblemToTracker struct {
	Problem models.DetectedProblem
}

// GetCurrentProblem asks for the problem open in TabID, or in any tab when
// TabID is zero.
type GetCurrentProblem struct {
	TabID int
}

type SidePanelReady struct{}

type Ping struct{}

func (ContentReady) Kind() Kind        { return KindContentReady }
func (ProblemDetected) Kind() Kind     { return KindProblemDetected }
func (ProblemCleared) Kind() Kind      { return KindProblemCleared }
func (AddProblemToTracker) Kind() Kind { return KindAddProblem }
func (GetCurrentProblem) Kind() Kind   { return KindGetCurrentProblem }
func (SidePanelReady) Kind() Kind      { return KindSidePanelReady }
func (Ping) Kind() Kind                { return KindPing }

func (ContentReady) message()        {}
func (ProblemDetected) message()     {}
func (ProblemCleared) message()      {}
func (AddProblemToTracker) message() {}
func (GetCurrentProblem) message()   {}
func (SidePanelReady) message()      {}
func (Ping) message()                {}

// Response mirrors the {success, data, error} reply the extension expects.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(data any) Response { return Response{Success: true, Data: data} }

// Decode parses and validates a message at the boundary.
func Decode(data []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.NewBadRequestError("malformed message: " + err.Error())
	}
	return env.Message()
}

// Message converts the envelope into its typed message.
func (e Envelope) Message() (Message, error) {
	switch e.Kind {
	case KindContentReady:
		if e.TabID <= 0 {
			return nil, errors.NewValidationError("tabId", "required for "+string(e.Kind))
		}
		return ContentReady{TabID: e.TabID}, nil

	case KindProblemDetected:
		p, err := e.problem()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.URL) == "" {
			return nil, errors.NewValidationError("data.problemUrl", "required for "+string(e.Kind))
		}
		return ProblemDetected{TabID: e.TabID, Problem: p}, nil

	case KindProblemCleared:
		return ProblemCleared{TabID: e.TabID}, nil

	case KindAddProblem:
		p, err := e.problem()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.URL) == "" && strings.TrimSpace(p.Title) == "" {
			return nil, errors.NewValidationError("data", "problemUrl or problemTitle is required")
		}
		return AddProblemToTracker{Problem: p}, nil

	case KindGetCurrentProblem:
		return GetCurrentProblem{TabID: e.TabID}, nil

	case KindSidePanelReady:
		return SidePanelReady{}, nil

	case KindPing:
		return Ping{}, nil

	case "":
		return nil, errors.NewValidationError("type", "message type is required")
	}
	return nil, errors.NewValidationError("type", "unknown message type "+string(e.Kind))
}

func (e Envelope) problem() (models.DetectedProblem, error) {
	var p models.DetectedProblem
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return p, errors.NewValidationError("data", "required for "+string(e.Kind))
	}
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return p, errors.NewBadRequestError("malformed data for " + string(e.Kind) + ": " + err.Error())
	}
	return p, nil
}
