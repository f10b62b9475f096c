package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/pitwall/internal/editor"
	"github.com/zulandar/pitwall/internal/export"
	"github.com/zulandar/pitwall/internal/keys"
	"github.com/zulandar/pitwall/internal/report"
	"github.com/zulandar/pitwall/internal/roster"
)

// ScoutPath is where opening a roster entry navigates to.
const ScoutPath = "/scout"

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, srv *server) {
	api := router.Group("/api")

	api.GET("/roster", handleRoster(srv))
	api.GET("/roster/open", handleRosterOpen(srv))
	api.GET("/roster/events", handleCoverageSSE(srv, defaultPollInterval))

	api.GET("/results", handleResults(srv))
	api.GET("/results/summary", handleSummary(srv))
	api.GET("/results/export", handleExport(srv))

	api.GET("/lists", handleListNames())
	api.GET("/lists/:name", handleList(srv))
	api.POST("/lists/:name", handleListAdd(srv))
	api.DELETE("/lists/:name/:index", handleListDelete(srv))

	api.GET("/store/:key", handleStoreGet(srv))
	api.PUT("/store/:key", handleStorePut(srv))
}

// rosterResponse is a roster plus its coverage counts.
type rosterResponse struct {
	*roster.Roster
	Scouted int `json:"scouted"`
	Total   int `json:"total"`
}

func handleRoster(srv *server) gin.HandlerFunc {
	return func(c *gin.Context) {
		event := c.Query("event")
		if event == "" {
			abort(c, http.StatusBadRequest, "event is required")
			return
		}
		r, err := roster.Build(srv.store, event, c.Query("mode"))
		if err != nil {
			fail(c, err)
			return
		}
		scouted, total := r.Coverage()
		c.JSON(http.StatusOK, rosterResponse{Roster: r, Scouted: scouted, Total: total})
	}
}

func handleRosterOpen(srv *server) gin.HandlerFunc {
	return func(c *gin.Context) {
		event := c.Query("event")
		team, err := strconv.Atoi(c.Query("team"))
		if event == "" || err != nil {
			abort(c, http.StatusBadRequest, "event and integer team are required")
			return
		}
		r, err := roster.Build(srv.store, event, c.Query("mode"))
		if err != nil {
			fail(c, err)
			return
		}
		q, err := r.Open(team)
		if err != nil {
			fail(c, err)
			return
		}
		c.Redirect(http.StatusFound, ScoutPath+"?"+q.Encode())
	}
}

// tabulate builds the results table for the type in the request, applying
// the declared schema, favorites and smart stats.
func (srv *server) tabulate(c *gin.Context) (*report.Table, string, bool) {
	reportType := c.Query("type")
	if !keys.ValidCategory(reportType) {
		abort(c, http.StatusBadRequest, "type is required and must not contain '-'")
		return nil, "", false
	}

	srv.mu.Lock()
	s := srv.sess.Settings()
	opts := report.Options{Schema: srv.cfg.Schema(reportType), Stats: s.SmartStats}
	if fav, _ := strconv.ParseBool(c.Query("favorites")); fav {
		opts.Favorites = s.Favorites
	}
	srv.mu.Unlock()

	t, err := report.Tabulate(srv.store, reportType, opts)
	if err != nil {
		fail(c, err)
		return nil, "", false
	}
	return t, reportType, true
}

func handleResults(srv *server) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, _, ok := srv.tabulate(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func handleSummary(srv *server) gin.HandlerFunc {
	return func(c *gin.Context) {
		reportType := c.Query("type")
		if !keys.ValidCategory(reportType) {
			abort(c, http.StatusBadRequest, "type is required and must not contain '-'")
			return
		}
		srv.mu.Lock()
		results := srv.sess.Settings().SmartResults
		srv.mu.Unlock()

		t, err := report.Summarize(srv.store, reportType, results)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func handleExport(srv *server) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, reportType, ok := srv.tabulate(c)
		if !ok {
			return
		}
		var buf bytes.Buffer
		switch format := c.DefaultQuery("format", "csv"); format {
		case "csv":
			if err := export.WriteCSV(&buf, t); err != nil {
				fail(c, err)
				return
			}
			c.Header("Content-Disposition", `attachment; filename="`+reportType+`.csv"`)
			c.Data(http.StatusOK, "text/csv", buf.Bytes())
		case "xlsx":
			if err := export.WriteXLSX(&buf, t, reportType); err != nil {
				fail(c, err)
				return
			}
			c.Header("Content-Disposition", `attachment; filename="`+reportType+`.xlsx"`)
			c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
		default:
			abort(c, http.StatusBadRequest, "format must be csv or xlsx")
		}
	}
}

func handleListNames() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"lists": editor.Names()})
	}
}

// listResponse is a list view plus, for favorites, the fields that can be
// added.
type listResponse struct {
	editor.View
	Candidates []editor.Candidate `json:"candidates,omitempty"`
}

func (srv *server) listResponse(view editor.View) (listResponse, error) {
	resp := listResponse{View: view}
	if view.Name != editor.Favorites {
		return resp, nil
	}
	cands, err := editor.FavoriteCandidates(srv.store, srv.sess.Settings().Favorites)
	if err != nil {
		return resp, err
	}
	resp.Candidates = cands
	return resp, nil
}

func handleList(srv *server) gin.HandlerFunc {
	return func(c *gin.Context) {
		ed, err := editor.Lookup(c.Param("name"))
		if err != nil {
			fail(c, err)
			return
		}
		srv.mu.Lock()
		defer srv.mu.Unlock()
		resp, err := srv.listResponse(ed.List(srv.sess))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func handleListAdd(srv *server) gin.HandlerFunc {
	return func(c *gin.Context) {
		ed, err := editor.Lookup(c.Param("name"))
		if err != nil {
			fail(c, err)
			return
		}
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			abort(c, http.StatusBadRequest, err.Error())
			return
		}
		srv.mu.Lock()
		defer srv.mu.Unlock()
		view, err := ed.AddJSON(srv.sess, body)
		if err != nil {
			fail(c, err)
			return
		}
		resp, err := srv.listResponse(view)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func handleListDelete(srv *server) gin.HandlerFunc {
	return func(c *gin.Context) {
		ed, err := editor.Lookup(c.Param("name"))
		if err != nil {
			fail(c, err)
			return
		}
		i, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			abort(c, http.StatusBadRequest, "index must be an integer")
			return
		}
		srv.mu.Lock()
		defer srv.mu.Unlock()
		view, err := ed.Delete(srv.sess, i)
		if err != nil {
			fail(c, err)
			return
		}
		resp, err := srv.listResponse(view)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func handleStoreGet(srv *server) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		raw, found, err := srv.store.Get(key)
		if err != nil {
			fail(c, err)
			return
		}
		if !found {
			abort(c, http.StatusNotFound, "no value for "+key)
			return
		}
		c.Data(http.StatusOK, "application/json", raw)
	}
}

// handleStorePut lets producers write a JSON document under a key. The
// settings key is owned by the list editors and cannot be written here.
func handleStorePut(srv *server) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		if key == keys.SettingsKey {
			abort(c, http.StatusForbidden, "settings are edited through /api/lists")
			return
		}
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			abort(c, http.StatusBadRequest, err.Error())
			return
		}
		if !json.Valid(body) {
			abort(c, http.StatusBadRequest, "body is not valid JSON")
			return
		}
		if err := srv.store.Set(key, json.RawMessage(body)); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// fail maps domain errors to HTTP status codes.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, editor.ErrOutOfRange),
		errors.Is(err, editor.ErrUnknownList),
		errors.Is(err, roster.ErrUnknownTeam):
		status = http.StatusNotFound
	case errors.Is(err, editor.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, editor.ErrInvalid),
		errors.Is(err, keys.ErrMalformed):
		status = http.StatusBadRequest
	default:
		log.Printf("dashboard: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	abort(c, status, err.Error())
}
