package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/league-scorebook/internal/domain/division"
	"github.com/riskibarqy/league-scorebook/internal/usecase"
)

type divisionPath struct {
	Organization string `validate:"required,max=100"`
	DivisionID   string `validate:"required,max=64,divisionid"`
}

type divisionInfoRequest struct {
	ID     string `json:"id" validate:"required,max=64,divisionid"`
	League string `json:"league" validate:"required,max=100"`
	Div    string `json:"div" validate:"required,max=100"`
	Locked bool   `json:"locked"`
}

type saveScoresRequest struct {
	Scores []scoreEntryRequest `json:"scores" validate:"required,min=1,dive"`
}

type scoreEntryRequest struct {
	GameID         int  `json:"gameId" validate:"gte=0"`
	HomeScore      *int `json:"homeScore" validate:"omitempty,gte=0,lte=999"`
	VisitorScore   *int `json:"visitorScore" validate:"omitempty,gte=0,lte=999"`
	HomeForfeit    bool `json:"homeForfeit"`
	VisitorForfeit bool `json:"visitorForfeit"`
}

func (h *Handler) pathParams(r *http.Request) (divisionPath, error) {
	p := divisionPath{
		Organization: strings.TrimSpace(r.PathValue("organization")),
		DivisionID:   strings.TrimSpace(r.PathValue("divisionID")),
	}
	if err := h.validateRequest(r.Context(), p); err != nil {
		return divisionPath{}, err
	}
	return p, nil
}

func (h *Handler) ListDivisions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.ListDivisions")
	defer span.End()

	organization := strings.TrimSpace(r.PathValue("organization"))
	items, err := h.divisions.GetDivisionList(ctx, organization)
	if err != nil {
		h.logger.WarnContext(ctx, "list divisions failed", "organization", organization, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]divisionInfoDTO, 0, len(items))
	for _, item := range items {
		out = append(out, divisionInfoToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CreateDivision(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.CreateDivision")
	defer span.End()

	organization := strings.TrimSpace(r.PathValue("organization"))
	var req divisionInfoRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	_, exists, err := h.divisions.GetDivisionInfoIfExists(ctx, organization, req.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "lookup division failed", "organization", organization, "division_id", req.ID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if exists {
		writeError(ctx, w, fmt.Errorf("%w: division %q already exists", division.ErrDocumentConflict, req.ID))
		return
	}

	h.saveInfo(w, r, organization, req, http.StatusCreated)
}

func (h *Handler) UpdateDivision(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.UpdateDivision")
	defer span.End()

	path, err := h.pathParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req divisionInfoRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		req.ID = path.DivisionID
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if !division.SameID(req.ID, path.DivisionID) {
		writeError(ctx, w, fmt.Errorf("%w: division id mismatch between path and payload", usecase.ErrInvalidInput))
		return
	}

	_, exists, err := h.divisions.GetDivisionInfoIfExists(ctx, path.Organization, path.DivisionID)
	if err != nil {
		h.logger.WarnContext(ctx, "lookup division failed", "organization", path.Organization, "division_id", path.DivisionID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeError(ctx, w, fmt.Errorf("%w: division %q", usecase.ErrNotFound, path.DivisionID))
		return
	}

	h.saveInfo(w, r, path.Organization, req, http.StatusOK)
}

func (h *Handler) saveInfo(w http.ResponseWriter, r *http.Request, organization string, req divisionInfoRequest, status int) {
	ctx := r.Context()

	err := h.divisions.SaveDivisionInfo(ctx, division.Info{
		Organization: organization,
		ID:           req.ID,
		League:       strings.TrimSpace(req.League),
		Div:          strings.TrimSpace(req.Div),
		Locked:       req.Locked,
	}, false)
	if err != nil {
		h.logger.WarnContext(ctx, "save division info failed", "organization", organization, "division_id", req.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	saved, _, err := h.divisions.GetDivisionInfoIfExists(ctx, organization, req.ID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, status, divisionInfoToDTO(saved))
}

func (h *Handler) DeleteDivision(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.DeleteDivision")
	defer span.End()

	path, err := h.pathParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	err = h.divisions.SaveDivisionInfo(ctx, division.Info{
		Organization: path.Organization,
		ID:           path.DivisionID,
	}, true)
	if err != nil {
		h.logger.WarnContext(ctx, "delete division failed", "organization", path.Organization, "division_id", path.DivisionID, "error", err)
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.GetStandings")
	defer span.End()

	path, err := h.pathParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	info, registered, err := h.divisions.GetDivisionInfoIfExists(ctx, path.Organization, path.DivisionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	item, err := h.divisions.GetDivision(ctx, path.Organization, path.DivisionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get division failed", "organization", path.Organization, "division_id", path.DivisionID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !item.Exists() {
		writeError(ctx, w, fmt.Errorf("%w: no schedule loaded for division %q", usecase.ErrNotFound, path.DivisionID))
		return
	}

	team := strings.TrimSpace(r.URL.Query().Get("team"))
	out := standingsPageDTO{
		ShowOvertimeLosses: showOvertimeLosses(item.Organization),
		Team:               team,
		Standings:          standingsToDTO(item.Standings),
		Schedule:           scheduleToDTO(filterScheduleByTeam(item.Schedule, team)),
	}
	if registered {
		dto := divisionInfoToDTO(info)
		out.Division = &dto
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) UploadSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.UploadSchedule")
	defer span.End()

	path, err := h.pathParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	doubleHeaders := false
	if raw := strings.TrimSpace(r.URL.Query().Get("doubleHeaders")); raw != "" {
		doubleHeaders, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: doubleHeaders must be a boolean", usecase.ErrInvalidInput))
			return
		}
	}

	var result usecase.LoadScheduleResult
	err = h.readBody(w, r, func(body []byte) error {
		var loadErr error
		result, loadErr = h.divisions.LoadScheduleFile(ctx, bytes.NewReader(body), path.Organization, path.DivisionID, doubleHeaders)
		return loadErr
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upload schedule failed", "organization", path.Organization, "division_id", path.DivisionID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !result.Success {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, result.ErrorMessage))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, loadScheduleResultDTO{
		FirstGameDate: formatDay(result.FirstGameDate),
		LastGameDate:  formatDay(result.LastGameDate),
	})
}

func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.GetGames")
	defer span.End()

	path, err := h.pathParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	gameID, err := strconv.Atoi(strings.TrimSpace(r.PathValue("gameID")))
	if err != nil || gameID < 0 {
		writeError(ctx, w, fmt.Errorf("%w: gameID must be a non-negative integer", usecase.ErrInvalidInput))
		return
	}

	games, err := h.divisions.GetGames(ctx, path.Organization, path.DivisionID, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if len(games) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: game %d in division %q", usecase.ErrNotFound, gameID, path.DivisionID))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, scheduleToDTO(games))
}

func (h *Handler) SaveScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.SaveScores")
	defer span.End()

	path, err := h.pathParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req saveScoresRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	info, exists, err := h.divisions.GetDivisionInfoIfExists(ctx, path.Organization, path.DivisionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeError(ctx, w, fmt.Errorf("%w: division %q", usecase.ErrNotFound, path.DivisionID))
		return
	}
	if info.Locked {
		writeError(ctx, w, fmt.Errorf("%w: %q does not accept scores", usecase.ErrLocked, info.ID))
		return
	}

	entries := make([]division.ScoreEntry, 0, len(req.Scores))
	for _, s := range req.Scores {
		entries = append(entries, division.ScoreEntry{
			GameID:         s.GameID,
			HomeScore:      s.HomeScore,
			VisitorScore:   s.VisitorScore,
			HomeForfeit:    s.HomeForfeit,
			VisitorForfeit: s.VisitorForfeit,
		})
	}
	if err := h.divisions.SaveScores(ctx, path.Organization, path.DivisionID, entries); err != nil {
		h.logger.WarnContext(ctx, "save scores failed", "organization", path.Organization, "division_id", path.DivisionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	item, err := h.divisions.GetDivision(ctx, path.Organization, path.DivisionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(item.Standings))
}
