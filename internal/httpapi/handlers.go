package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"volunteerManagement/internal/service"
)

const invalidBody = "Invalid request body."

func (s *Server) register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, invalidBody)
		return
	}
	res, err := s.svc.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presentRegistered(res))
}

func (s *Server) obtainToken(c *gin.Context) {
	var in struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, invalidBody)
		return
	}
	res, err := s.svc.ObtainToken(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentToken(res))
}

func (s *Server) lookupUser(c *gin.Context) {
	d, err := s.svc.LookupUser(c.Request.Context(), c.Query("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentUserDetail(d))
}

func (s *Server) listEvents(c *gin.Context) {
	events, err := s.svc.ListEvents(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentEvents(events))
}

func (s *Server) searchEvents(c *gin.Context) {
	events, err := s.svc.SearchEvents(c.Request.Context(), c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentEvents(events))
}

func (s *Server) createEvent(c *gin.Context) {
	var in service.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, invalidBody)
		return
	}
	e, err := s.svc.CreateEvent(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presentEvent(e))
}

// eventID parses the :id path segment. Non-numeric ids do not name an event.
func eventID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found."})
		return 0, false
	}
	return id, true
}

func (s *Server) getEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	e, err := s.svc.GetEvent(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentEvent(e))
}

func (s *Server) updateEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	var in service.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, invalidBody)
		return
	}
	e, err := s.svc.UpdateEvent(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentEvent(e))
}

func (s *Server) deleteEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	if err := s.svc.DeleteEventByID(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteEventsByTitle(c *gin.Context) {
	n, err := s.svc.DeleteEvent(c.Request.Context(), c.Query("event_name"), c.Query("event_date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d event(s) deleted successfully", n)})
}

func (s *Server) assignHours(c *gin.Context) {
	var in service.AssignHoursInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, invalidBody)
		return
	}
	if _, err := s.svc.AssignHours(c.Request.Context(), in); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Volunteer hours assigned successfully"})
}

func (s *Server) listVolunteers(c *gin.Context) {
	vs, err := s.svc.ListVolunteers(c.Request.Context(), c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentVolunteers(vs))
}

func (s *Server) hoursSummary(c *gin.Context) {
	roster, err := s.svc.RosterSummary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentRoster(roster))
}

func (s *Server) markAttendance(c *gin.Context) {
	var body struct {
		Topic          string          `json:"topic"`
		VolunteerHours json.RawMessage `json:"volunteer_hours"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, invalidBody)
		return
	}
	if body.Topic == "" {
		badRequest(c, "Topic is required.")
		return
	}
	// A missing key means no hours; an explicit null is not a mapping.
	in := service.MarkAttendanceInput{Topic: body.Topic, VolunteerHours: map[string]service.Number{}}
	if raw := bytes.TrimSpace(body.VolunteerHours); len(raw) > 0 {
		if raw[0] != '{' || json.Unmarshal(raw, &in.VolunteerHours) != nil {
			badRequest(c, "Invalid format for volunteer_hours.")
			return
		}
	}
	n, err := s.svc.MarkAttendance(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Online hours logged successfully.", "records": n})
}

func (s *Server) resetPassword(c *gin.Context) {
	var in struct {
		Username    string `json:"username"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, invalidBody)
		return
	}
	if err := s.svc.ResetPassword(c.Request.Context(), in.Username, in.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully."})
}

func (s *Server) myAttendance(c *gin.Context) {
	recs, err := s.svc.MyAttendance(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentAttendance(recs))
}

func (s *Server) myProfile(c *gin.Context) {
	p, err := s.svc.MyProfile(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentProfile(p))
}
