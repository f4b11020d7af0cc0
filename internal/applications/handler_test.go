package applications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRouter(f fixture, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Set("userRole", roleOf(userID))
		c.Next()
	})
	NewHandler(f.svc).RegisterRoutes(api)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Count   int                   `json:"count"`
	Data    []ApplicationResponse `json:"data"`
}

func TestApplyTwiceOverHTTP(t *testing.T) {
	f := newFixture(t)
	jobID := f.newJob(t, employerID)
	r := newRouter(f, seekerID)

	body := `{"jobId":"` + jobID + `","coverLetter":"Hello"}`
	if resp := do(r, http.MethodPost, "/api/applications", body); resp.Code != http.StatusCreated {
		t.Fatalf("first apply: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	resp := do(r, http.MethodPost, "/api/applications", body)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("second apply: expected 400, got %d", resp.Code)
	}
	var failure map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &failure); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if failure["success"] != false || failure["message"] != "You have already applied for this job" {
		t.Fatalf("unexpected body: %v", failure)
	}

	resp = do(r, http.MethodGet, "/api/applications/my-applications", "")
	var env envelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Count != 1 || env.Data[0].Job == nil || env.Data[0].Job.SalaryRange == "" {
		t.Fatalf("unexpected my-applications: %s", resp.Body.String())
	}
}

func TestApplicationRoutesErrors(t *testing.T) {
	f := newFixture(t)
	jobID := f.newJob(t, employerID)

	cases := []struct {
		name   string
		user   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing job id", seekerID, http.MethodPost, "/api/applications", `{}`, http.StatusBadRequest},
		{"unknown job", seekerID, http.MethodPost, "/api/applications", `{"jobId":"99999999-9999-9999-9999-999999999999"}`, http.StatusNotFound},
		{"non-owner lists", otherID, http.MethodGet, "/api/applications/job/" + jobID, "", http.StatusForbidden},
		{"admin lists", adminID, http.MethodGet, "/api/applications/job/" + jobID, "", http.StatusForbidden},
		{"unknown job list", employerID, http.MethodGet, "/api/applications/job/99999999-9999-9999-9999-999999999999", "", http.StatusNotFound},
		{"bad status", employerID, http.MethodPut, "/api/applications/00000000-0000-0000-0000-000000000000/status", `{"status":"hired"}`, http.StatusBadRequest},
		{"unknown application", employerID, http.MethodPut, "/api/applications/00000000-0000-0000-0000-000000000000/status", `{"status":"reviewed"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		resp := do(newRouter(f, tc.user), tc.method, tc.path, tc.body)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.want, resp.Code, resp.Body.String())
		}
	}
}

func TestOwnerReviewsApplicantsOverHTTP(t *testing.T) {
	f := newFixture(t)
	jobID := f.newJob(t, employerID)

	resp := do(newRouter(f, seekerID), http.MethodPost, "/api/applications", `{"jobId":"`+jobID+`"}`)
	var created struct {
		Data ApplicationResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	owner := newRouter(f, employerID)
	resp = do(owner, http.MethodGet, "/api/applications/job/"+jobID, "")
	var env envelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Count != 1 || env.Data[0].Applicant == nil || env.Data[0].Applicant.Email == "" {
		t.Fatalf("unexpected applicants: %s", resp.Body.String())
	}

	resp = do(owner, http.MethodPut, "/api/applications/"+created.Data.ID+"/status", `{"status":"accepted"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"status":"accepted"`) {
		t.Fatalf("status not updated: %s", resp.Body.String())
	}
}
