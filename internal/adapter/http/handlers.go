package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

func (s *Server) handleComputeAllRisks(w http.ResponseWriter, r *http.Request) {
	reports, err := s.risks.ComputeAllReports(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if reports == nil {
		reports = []domain.RiskReport{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleComputeRisk(w http.ResponseWriter, r *http.Request) {
	regionID, err := urlParamInt(r, "regionID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	typeID, err := urlParamInt(r, "disasterTypeID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.risks.ComputeReport(r.Context(), regionID, typeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type regionRequest struct {
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	MonitoredTypes []int   `json:"monitored_types"`
}

func (s *Server) handleListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := s.regions.ListRegions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if regions == nil {
		regions = []domain.Region{}
	}
	writeJSON(w, http.StatusOK, regions)
}

func (s *Server) handleCreateRegion(w http.ResponseWriter, r *http.Request) {
	var req regionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, domain.Validationf("decode region body"))
		return
	}

	region := domain.Region{
		Name:           req.Name,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		MonitoredTypes: req.MonitoredTypes,
	}
	if err := s.regions.CreateRegion(r.Context(), &region); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, region)
}

func (s *Server) handleGetRegion(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "regionID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	region, err := s.regions.GetRegion(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, region)
}

func (s *Server) handleUpdateRegion(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "regionID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req regionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, domain.Validationf("decode region body"))
		return
	}

	region := domain.Region{
		ID:             id,
		Name:           req.Name,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		MonitoredTypes: req.MonitoredTypes,
	}
	if err := s.regions.UpdateRegion(r.Context(), &region); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, region)
}

func (s *Server) handleDeleteRegion(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "regionID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.regions.DeleteRegion(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type settingRequest struct {
	RegionID       int     `json:"region_id"`
	DisasterTypeID int     `json:"disaster_type_id"`
	ThresholdScore float64 `json:"threshold_score"`
	Active         bool    `json:"active"`
}

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	regionID, err := queryInt(r, "region_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	settings, err := s.settings.ListAlertSettings(r.Context(), regionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if settings == nil {
		settings = []domain.AlertSetting{}
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleCreateSetting(w http.ResponseWriter, r *http.Request) {
	var req settingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, domain.Validationf("decode setting body"))
		return
	}

	setting := domain.AlertSetting{
		RegionID:       req.RegionID,
		DisasterTypeID: req.DisasterTypeID,
		ThresholdScore: req.ThresholdScore,
		Active:         req.Active,
	}
	if err := s.settings.UpsertAlertSetting(r.Context(), &setting); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, setting)
}

func (s *Server) handleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "settingID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req settingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, domain.Validationf("decode setting body"))
		return
	}
	if err := s.settings.UpdateAlertSetting(r.Context(), id, req.ThresholdScore, req.Active); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSetting(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "settingID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.settings.DeleteAlertSetting(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeError(w, r, domain.Validationf("limit %q", raw))
			return
		}
		limit = parsed
	}

	alerts, err := s.alerts.ListAlerts(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleListRegionAlerts(w http.ResponseWriter, r *http.Request) {
	regionID, err := urlParamInt(r, "regionID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	alerts, err := s.alerts.ListAlertsByRegion(r.Context(), regionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

func urlParamInt(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Validationf("%s %q", name, raw)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, domain.Validationf("%s query parameter is required", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Validationf("%s %q", name, raw)
	}
	return v, nil
}
