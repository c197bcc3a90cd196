package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/naka-gawa/merged-prs/internal/domain"
	"github.com/naka-gawa/merged-prs/internal/presenter"
	"github.com/naka-gawa/merged-prs/internal/usecase"
)

const missingInputMessage = "Please provide the organization name and access token."

// Runner runs one counting run.
type Runner interface {
	Run(ctx context.Context, q domain.Query, token string, progress usecase.ProgressFunc) (*domain.Result, error)
}

// DashboardHandler serves the interactive form and its results.
type DashboardHandler struct {
	runner     Runner
	token      string
	defaultOrg string
	now        func() time.Time
	logger     *log.Logger
}

func NewDashboardHandler(runner Runner, token, defaultOrg string, logger *log.Logger) *DashboardHandler {
	return &DashboardHandler{
		runner:     runner,
		token:      token,
		defaultOrg: defaultOrg,
		now:        time.Now,
		logger:     logger,
	}
}

type pageData struct {
	Org       string
	From      string
	To        string
	Breakdown bool
	Warning   string
	Error     string
	Total     string
	Status    string
	Chart     string
}

// Form handles GET /
func (h *DashboardHandler) Form(w http.ResponseWriter, r *http.Request) {
	from, to := domain.DefaultRange(h.now())
	h.render(w, http.StatusOK, pageData{
		Org:       h.defaultOrg,
		From:      from,
		To:        to,
		Breakdown: true,
	})
}

// Count handles POST /count
func (h *DashboardHandler) Count(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, pageData{Error: fmt.Sprintf("An error occurred: %v", err)})
		return
	}
	data := pageData{
		Org:       r.PostForm.Get("org"),
		From:      r.PostForm.Get("from"),
		To:        r.PostForm.Get("to"),
		Breakdown: r.PostForm.Get("breakdown") != "",
	}

	q, err := h.query(data.Org, data.From, data.To, data.Breakdown)
	if err != nil {
		data.Error = fmt.Sprintf("An error occurred: %v", err)
		h.render(w, http.StatusBadRequest, data)
		return
	}

	var last string
	result, err := h.runner.Run(r.Context(), q, h.token, func(done, total int) {
		last = fmt.Sprintf("Processing repository %d of %d", done, total)
		h.logger.Println(last)
	})
	switch {
	case errors.Is(err, domain.ErrMissingInput):
		data.Warning = missingInputMessage
		h.render(w, http.StatusBadRequest, data)
		return
	case err != nil:
		data.Error = fmt.Sprintf("An error occurred: %v", err)
		h.render(w, http.StatusInternalServerError, data)
		return
	}

	data.Total = presenter.TotalLine(result)
	if result.Breakdown {
		data.Status = "Processing complete!"
		if last == "" {
			data.Status = "No repositories found. Processing complete!"
		}
		var chart bytes.Buffer
		if err := presenter.WriteHTMLChart(&chart, presenter.BuildChart(result)); err != nil {
			data.Error = fmt.Sprintf("An error occurred: %v", err)
			data.Total = ""
			h.render(w, http.StatusInternalServerError, data)
			return
		}
		data.Chart = chart.String()
	}
	h.render(w, http.StatusOK, data)
}

// CountJSON handles GET /api/count?org=&from=&to=&breakdown=
func (h *DashboardHandler) CountJSON(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	from, to := domain.DefaultRange(h.now())
	if v := params.Get("from"); v != "" {
		from = v
	}
	if v := params.Get("to"); v != "" {
		to = v
	}
	org := params.Get("org")
	if org == "" {
		org = h.defaultOrg
	}

	q, err := h.query(org, from, to, params.Get("breakdown") == "true")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	result, err := h.runner.Run(r.Context(), q, h.token, nil)
	switch {
	case errors.Is(err, domain.ErrMissingInput):
		respondError(w, http.StatusBadRequest, "MISSING_INPUT", missingInputMessage)
		return
	case err != nil:
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := presenter.WriteJSON(w, result); err != nil {
		h.logger.Printf("Failed to write response: %v", err)
	}
}

func (h *DashboardHandler) query(org, from, to string, breakdown bool) (domain.Query, error) {
	var err error
	q := domain.Query{Org: org, Breakdown: breakdown}
	if q.From, err = domain.ParseDate(from); err != nil {
		return domain.Query{}, err
	}
	if q.To, err = domain.ParseDate(to); err != nil {
		return domain.Query{}, err
	}
	return q, nil
}

func (h *DashboardHandler) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.Printf("Failed to render page: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>GitHub Merged Pull Requests</title>
</head>
<body>
<h1>GitHub Merged Pull Requests</h1>
<form method="post" action="/count">
  <p><label>Enter the GitHub organization name: <input type="text" name="org" value="{{.Org}}"></label></p>
  <p><label>Select the start date: <input type="date" name="from" value="{{.From}}"></label></p>
  <p><label>Select the end date: <input type="date" name="to" value="{{.To}}"></label></p>
  <p><label><input type="checkbox" name="breakdown" value="on"{{if .Breakdown}} checked{{end}}> Break down by repository</label></p>
  <p><button type="submit">Count Merged Pull Requests</button></p>
</form>
{{if .Warning}}<p class="warning">{{.Warning}}</p>{{end}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Status}}<p class="status">{{.Status}}</p>{{end}}
{{if .Total}}<p class="total">{{.Total}}</p>{{end}}
{{if .Chart}}<iframe title="chart" width="1250" height="680" srcdoc="{{.Chart}}"></iframe>{{end}}
</body>
</html>
`))
