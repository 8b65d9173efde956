// Package webhook terminates GitHub webhook deliveries: signature
// validation, payload parsing, and translation into the event types the
// lifecycle controller consumes. Deliveries are acknowledged with 202
// before handling completes; the controller re-derives all state remotely,
// so a lost in-flight handler costs at most one redelivered event's worth
// of duplicate bookkeeping.
package webhook

import (
	"log/slog"
	"net/http"

	"github.com/google/go-github/v71/github"
	"github.com/google/uuid"

	"github.com/reporeferee/reporeferee/internal/event"
)

// Config holds the webhook server settings.
type Config struct {
	// Secret verifies delivery signatures.
	Secret string

	// ModerationRepo routes issues.closed deliveries to the moderation
	// flow instead of the detection flow.
	ModerationRepo string
}

// Server is the HTTP surface receiving webhook deliveries.
type Server struct {
	cfg  Config
	disp *Dispatcher
	log  *slog.Logger
}

// NewServer creates the webhook server.
func NewServer(cfg Config, disp *Dispatcher, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	return &Server{
		cfg:  cfg,
		disp: disp,
		log:  log.With("component", "webhook"),
	}
}

// Handler returns the HTTP handler serving the webhook endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", s.handleDelivery)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter,
		_ *http.Request) {

		w.WriteHeader(http.StatusOK)
	})

	return mux
}

// handleDelivery validates, parses, and dispatches one delivery. Only
// signature and parse failures are reported to the sender; everything past
// that point is acknowledged with 202 regardless of outcome.
func (s *Server) handleDelivery(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, []byte(s.cfg.Secret))
	if err != nil {
		s.log.Warn("Rejecting delivery with bad signature",
			"err", err)
		http.Error(w, "bad signature", http.StatusForbidden)
		return
	}

	deliveryID := github.DeliveryID(r)
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}

	eventName := github.WebHookType(r)
	parsed, err := github.ParseWebHook(eventName, payload)
	if err != nil {
		s.log.Warn("Rejecting unparsable delivery",
			"delivery", deliveryID, "event", eventName, "err", err)
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	s.route(deliveryID, eventName, parsed, payload)
	w.WriteHeader(http.StatusAccepted)
}

// route decides whether a delivery feeds the moderation flow, the detection
// flow, or nothing.
func (s *Server) route(deliveryID, eventName string, parsed any,
	payload []byte) {

	log := s.log.With("delivery", deliveryID, "event", eventName)

	// A close in the moderation repo is a moderator decision, not a
	// detection event.
	if issues, ok := parsed.(*github.IssuesEvent); ok &&
		issues.GetAction() == "closed" {

		if issues.GetRepo().GetName() != s.cfg.ModerationRepo {
			log.Info("Ignoring issue close outside the " +
				"moderation repo")
			return
		}

		s.disp.DispatchModerationClose(
			mapModerationClose(deliveryID, issues))
		return
	}

	action := actionOf(parsed)
	t, err := event.Classify(eventName, action)
	if err != nil {
		log.Info("Ignoring unsubscribed event", "action", action)
		return
	}

	ev, ok := mapDetection(deliveryID, t, parsed, payload)
	if !ok {
		log.Info("Ignoring unsupported payload shape")
		return
	}

	s.disp.DispatchDetection(ev)
}

// actionOf extracts the action string out of any parsed delivery type the
// server subscribes to.
func actionOf(parsed any) string {
	switch p := parsed.(type) {
	case *github.IssuesEvent:
		return p.GetAction()
	case *github.IssueCommentEvent:
		return p.GetAction()
	case *github.PullRequestEvent:
		return p.GetAction()
	case *github.PullRequestReviewEvent:
		return p.GetAction()
	case *github.PullRequestReviewCommentEvent:
		return p.GetAction()
	case *github.DiscussionEvent:
		return p.GetAction()
	case *github.DiscussionCommentEvent:
		return p.GetAction()
	default:
		return ""
	}
}
