package rest

import "net/http"

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health   *HealthHandler
	Chat     *ChatHandler
	Journal  *JournalHandler
	Capsule  *CapsuleHandler
	Summary  *SummaryHandler
	Feedback *FeedbackHandler
	Account  *AccountHandler
}

// NewRouter builds the HTTP route table.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	mux.HandleFunc("GET /api/chat/messages", h.Chat.History)
	mux.HandleFunc("POST /api/chat/messages", h.Chat.Send)
	mux.HandleFunc("POST /api/chat/checkin", h.Chat.CheckIn)

	mux.HandleFunc("POST /api/journal/entries", h.Journal.CreateEntry)
	mux.HandleFunc("GET /api/journal/entries", h.Journal.ListEntries)
	mux.HandleFunc("POST /api/journal/entries/{id}/reflect", h.Journal.ReflectEntry)

	mux.HandleFunc("POST /api/gratitude", h.Journal.CreateGratitude)
	mux.HandleFunc("GET /api/gratitude", h.Journal.ListGratitudes)

	mux.HandleFunc("POST /api/capsule", h.Capsule.Create)
	mux.HandleFunc("GET /api/capsule", h.Capsule.Get)
	mux.HandleFunc("POST /api/capsule/{id}/open", h.Capsule.Open)
	mux.HandleFunc("POST /api/capsule/reflect", h.Capsule.Reflect)
	mux.HandleFunc("DELETE /api/capsule", h.Capsule.Delete)

	mux.HandleFunc("GET /api/summary/eligibility", h.Summary.Eligibility)
	mux.HandleFunc("POST /api/summary", h.Summary.Generate)

	mux.HandleFunc("POST /api/feedback", h.Feedback.Submit)

	mux.HandleFunc("DELETE /api/data", h.Account.Wipe)

	return mux
}
