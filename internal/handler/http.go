package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/valentinpelus/unicornfeedback/internal/processor"
	"github.com/valentinpelus/unicornfeedback/pkg/classifier"
	"github.com/valentinpelus/unicornfeedback/pkg/store"
	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

// maxBodyBytes bounds request bodies read by the HTTP endpoints
const maxBodyBytes = 1 << 20

// StatusCode maps a workflow error to an HTTP status
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, store.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, processor.ErrUnsupportedAnnotation), errors.Is(err, store.ErrUnknownKind):
		return http.StatusBadRequest
	case errors.Is(err, classifier.ErrClassifierUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, store.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HandleEnterFeedback accepts FirstName, LastName and Feedback as query
// parameters or a JSON body
func (h *Handler) HandleEnterFeedback(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r) {
		return
	}

	var event types.EnterFeedbackEvent
	if err := decodeRequest(r, &event); err != nil {
		h.logger.Warn("Failed to parse request", zap.Error(err))
		http.Error(w, "Failed to parse request", http.StatusBadRequest)
		return
	}
	if event == (types.EnterFeedbackEvent{}) {
		q := r.URL.Query()
		event = types.EnterFeedbackEvent{
			FirstName: q.Get("FirstName"),
			LastName:  q.Get("LastName"),
			Feedback:  q.Get("Feedback"),
		}
	}

	resp, err := h.submit(r.Context(), event)
	if err != nil {
		writeJSON(w, StatusCode(err), types.StatusResponse{Status: "error", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandlePredictSentiment annotates the records named by the ID parameter
func (h *Handler) HandlePredictSentiment(w http.ResponseWriter, r *http.Request) {
	h.serveAnnotate(w, r, h.PredictSentiment)
}

// HandlePredictGender annotates the records named by the ID parameter
func (h *Handler) HandlePredictGender(w http.ResponseWriter, r *http.Request) {
	h.serveAnnotate(w, r, h.PredictGender)
}

// HandleGetAllContents lists every record
func (h *Handler) HandleGetAllContents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Only GET method is allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := h.GetAllContents(r.Context(), nil)
	if err != nil {
		writeJSON(w, StatusCode(err), types.StatusResponse{Status: "error", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type annotateFunc func(context.Context, types.AnnotateEvent) ([]types.FeedbackRecord, error)

func (h *Handler) serveAnnotate(w http.ResponseWriter, r *http.Request, fn annotateFunc) {
	if !allowMethod(w, r) {
		return
	}

	var event types.AnnotateEvent
	if err := decodeRequest(r, &event); err != nil {
		h.logger.Warn("Failed to parse request", zap.Error(err))
		http.Error(w, "Failed to parse request", http.StatusBadRequest)
		return
	}
	if event.ID == "" {
		event.ID = idParam(r.URL.Query())
	}

	records, err := fn(r.Context(), event)
	if err != nil {
		writeJSON(w, StatusCode(err), types.StatusResponse{Status: "error", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleHealth handles health check requests
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// APIGateway serves API Gateway proxy events, routing on the last path
// segment the way the browser client calls the stage
// (/enterfeedback, /predictsentiment, /predictgender, /getallcontents).
func (h *Handler) APIGateway(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := url.Values{}
	for k, v := range req.QueryStringParameters {
		params.Set(k, v)
	}

	var (
		result any
		err    error
	)

	switch path.Base(req.Path) {
	case "enterfeedback":
		event := types.EnterFeedbackEvent{
			FirstName: params.Get("FirstName"),
			LastName:  params.Get("LastName"),
			Feedback:  params.Get("Feedback"),
		}
		if req.Body != "" {
			if err := json.Unmarshal([]byte(req.Body), &event); err != nil {
				return apiResponse(http.StatusBadRequest, types.StatusResponse{Status: "error", Error: "invalid JSON body"}), nil
			}
		}
		result, err = h.submit(ctx, event)

	case "predictsentiment", "predictgender":
		event := types.AnnotateEvent{ID: idParam(params)}
		if req.Body != "" {
			if err := json.Unmarshal([]byte(req.Body), &event); err != nil {
				return apiResponse(http.StatusBadRequest, types.StatusResponse{Status: "error", Error: "invalid JSON body"}), nil
			}
		}
		if path.Base(req.Path) == "predictsentiment" {
			result, err = h.PredictSentiment(ctx, event)
		} else {
			result, err = h.PredictGender(ctx, event)
		}

	case "getallcontents":
		result, err = h.GetAllContents(ctx, nil)

	default:
		return apiResponse(http.StatusNotFound, types.StatusResponse{Status: "error", Error: "unknown route " + req.Path}), nil
	}

	if err != nil {
		return apiResponse(StatusCode(err), types.StatusResponse{Status: "error", Error: err.Error()}), nil
	}
	return apiResponse(http.StatusOK, result), nil
}

func apiResponse(status int, body any) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"status":"error"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(data),
	}
}

// allowMethod rejects anything but GET and POST
func allowMethod(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Only GET and POST methods are allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// idParam reads the comma-joined ids; the browser client sends "Id"
func idParam(q url.Values) string {
	if id := q.Get("ID"); id != "" {
		return id
	}
	return q.Get("Id")
}

// decodeRequest reads a JSON body into v when the request carries one.
// GET requests and non-JSON bodies leave v untouched.
func decodeRequest(r *http.Request, v any) error {
	if r.Method == http.MethodGet || r.Body == nil {
		return nil
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return nil
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
