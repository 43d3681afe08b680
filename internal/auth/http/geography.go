package http

import (
	"net/http"
	"strconv"

	"github.com/sautiyetu/sauti/internal/auth/service"
	"github.com/sautiyetu/sauti/pkg/authsdk"
	"github.com/sautiyetu/sauti/pkg/httpx"
)

// GeographyHandler serves the county, constituency and ward lists used by
// the registration form.
type GeographyHandler struct {
	Geography *service.GeographyService
}

// HandleCounties handles GET /v1/geography/counties
//
//	@Summary	List counties
//	@Tags		Geography
//	@Produce	json
//	@Success	200	{object}	authsdk.ListCountiesResponse
//	@Router		/v1/geography/counties [get].
func (h *GeographyHandler) HandleCounties(w http.ResponseWriter, r *http.Request) {
	counties, err := h.Geography.ListCounties(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := authsdk.ListCountiesResponse{Counties: make([]authsdk.CountyInfo, 0, len(counties))}
	for _, c := range counties {
		resp.Counties = append(resp.Counties, authsdk.CountyInfo{ID: c.ID, Code: c.Code, Name: c.Name})
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleConstituencies handles GET /v1/geography/counties/{id}/constituencies
//
//	@Summary	List constituencies of a county
//	@Tags		Geography
//	@Produce	json
//	@Param		id	path		int	true	"County ID"
//	@Success	200	{object}	authsdk.ListConstituenciesResponse
//	@Failure	404	{object}	authsdk.APIError	"County not found"
//	@Router		/v1/geography/counties/{id}/constituencies [get].
func (h *GeographyHandler) HandleConstituencies(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	items, err := h.Geography.ListConstituencies(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := authsdk.ListConstituenciesResponse{Constituencies: make([]authsdk.ConstituencyInfo, 0, len(items))}
	for _, c := range items {
		resp.Constituencies = append(resp.Constituencies, authsdk.ConstituencyInfo{ID: c.ID, CountyID: c.CountyID, Name: c.Name})
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleWards handles GET /v1/geography/constituencies/{id}/wards
//
//	@Summary	List wards of a constituency
//	@Tags		Geography
//	@Produce	json
//	@Param		id	path		int	true	"Constituency ID"
//	@Success	200	{object}	authsdk.ListWardsResponse
//	@Failure	404	{object}	authsdk.APIError	"Constituency not found"
//	@Router		/v1/geography/constituencies/{id}/wards [get].
func (h *GeographyHandler) HandleWards(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	items, err := h.Geography.ListWards(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := authsdk.ListWardsResponse{Wards: make([]authsdk.WardInfo, 0, len(items))}
	for _, wd := range items {
		resp.Wards = append(resp.Wards, authsdk.WardInfo{ID: wd.ID, ConstituencyID: wd.ConstituencyID, Name: wd.Name, Code: wd.Code})
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// pathID parses the numeric {id} path value; unknown ids become 404.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, service.ErrNotFound)
		return 0, false
	}
	return id, true
}
