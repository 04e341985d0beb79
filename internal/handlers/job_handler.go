package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/realtime"
	"github.com/unilinkng/backend/internal/repositories"
)

// JobHandler handles job board and application HTTP requests
type JobHandler struct {
	jobRepository         repositories.JobRepository
	applicationRepository repositories.ApplicationRepository
	profileRepository     repositories.ProfileRepository
	hub                   *realtime.Hub
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(
	jobRepo repositories.JobRepository,
	applicationRepo repositories.ApplicationRepository,
	profileRepo repositories.ProfileRepository,
	hub *realtime.Hub,
) *JobHandler {
	return &JobHandler{
		jobRepository:         jobRepo,
		applicationRepository: applicationRepo,
		profileRepository:     profileRepo,
		hub:                   hub,
	}
}

// RegisterJobRoutes registers job board routes
func (h *JobHandler) RegisterJobRoutes(g *echo.Group) {
	g.GET("/jobs", h.GetJobs)
	g.POST("/jobs", h.CreateJob)
	g.DELETE("/jobs/:id", h.DeleteJob)
	g.POST("/jobs/:id/applications", h.Apply)
	g.GET("/jobs/:id/applications", h.GetApplicants)
	g.PUT("/applications/:id/status", h.UpdateApplicationStatus)
}

// EnrichedJob is a job with the viewer-specific derived fields computed
// at fetch time from the applications table
type EnrichedJob struct {
	models.Job
	ApplicantsCount int64 `json:"applicants_count"`
	HasApplied      bool  `json:"has_applied"`
}

// GetJobs returns the job board newest-first with applicants_count and
// has_applied computed once over the page
func (h *JobHandler) GetJobs(c echo.Context) error {
	viewer, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	jobs, err := h.jobRepository.GetAllJobs(100)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	jobIDs := make([]string, len(jobs))
	for i, job := range jobs {
		jobIDs[i] = job.ID
	}
	counts, err := h.applicationRepository.CountByJobIDs(jobIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	appliedSet, err := h.applicationRepository.GetAppliedJobIDs(viewer.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched := make([]EnrichedJob, len(jobs))
	for i, job := range jobs {
		enriched[i] = EnrichedJob{
			Job:             job,
			ApplicantsCount: counts[job.ID],
			HasApplied:      appliedSet[job.ID],
		}
	}
	return c.JSON(http.StatusOK, enriched)
}

// CreateJob posts a job on behalf of the caller's organization
func (h *JobHandler) CreateJob(c echo.Context) error {
	owner, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}
	if owner.AccountType != models.AccountTypeOrganization {
		return echo.NewHTTPError(http.StatusForbidden, "Only organizations can post jobs")
	}

	var req models.CreateJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	job := &models.Job{
		ProfileID: owner.ID,
		Title:     req.Title,
		Company:   req.Company,
		Location:  req.Location,
		Type:      models.JobType(req.Type),
		IsRemote:  req.IsRemote,
		IsPaid:    req.IsPaid,
		Verified:  owner.IsVerified,
	}
	if err := h.jobRepository.CreateJob(job); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.hub.Publish("jobs", realtime.EventInsert, recordOf(job))
	return c.JSON(http.StatusCreated, job)
}

// DeleteJob removes a job posting; only the owning organization may
func (h *JobHandler) DeleteJob(c echo.Context) error {
	owner, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}
	jobID := c.Param("id")

	job, err := h.jobRepository.GetJobByID(jobID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Job not found")
	}
	if job.ProfileID != owner.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You do not own this job posting")
	}

	if err := h.jobRepository.DeleteJob(jobID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.hub.Publish("jobs", realtime.EventDelete, recordOf(job))
	return c.NoContent(http.StatusNoContent)
}

// Apply submits an application. A second attempt by the same applicant
// conflicts and leaves the applicant count untouched.
func (h *JobHandler) Apply(c echo.Context) error {
	applicant, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}
	if applicant.AccountType != models.AccountTypeStudent {
		return echo.NewHTTPError(http.StatusForbidden, "Only students can apply to jobs")
	}
	jobID := c.Param("id")

	if _, err := h.jobRepository.GetJobByID(jobID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Job not found")
	}

	application := &models.Application{
		JobID:       jobID,
		ApplicantID: applicant.ID,
		Status:      models.ApplicationStatusPending,
	}
	if err := h.applicationRepository.CreateApplication(application); err != nil {
		if isDuplicateKey(err) {
			return echo.NewHTTPError(http.StatusConflict, "You have already applied to this job")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.hub.Publish("applications", realtime.EventInsert, recordOf(application))
	return c.JSON(http.StatusCreated, application)
}

// ApplicantEntry is an application joined with its student profile
type ApplicantEntry struct {
	models.Application
	Student models.ProfileCompact `json:"student"`
}

// GetApplicants lists a job's applications; only the owner may
func (h *JobHandler) GetApplicants(c echo.Context) error {
	owner, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}
	jobID := c.Param("id")

	job, err := h.jobRepository.GetJobByID(jobID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Job not found")
	}
	if job.ProfileID != owner.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You do not own this job posting")
	}

	applications, err := h.applicationRepository.GetApplicationsByJobID(jobID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	entries := make([]ApplicantEntry, 0, len(applications))
	for _, application := range applications {
		entry := ApplicantEntry{Application: application}
		if profile, err := h.profileRepository.GetProfileByID(application.ApplicantID); err == nil {
			entry.Student = profile.ToCompact()
		}
		entries = append(entries, entry)
	}
	return c.JSON(http.StatusOK, entries)
}

// UpdateApplicationStatus moves an application through review; only the
// job owner may
func (h *JobHandler) UpdateApplicationStatus(c echo.Context) error {
	owner, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}
	applicationID := c.Param("id")

	var req models.UpdateApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	application, err := h.applicationRepository.GetApplicationByID(applicationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Application not found")
	}
	job, err := h.jobRepository.GetJobByID(application.JobID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Job not found")
	}
	if job.ProfileID != owner.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You do not own this job posting")
	}

	status := models.ApplicationStatus(req.Status)
	if err := h.applicationRepository.UpdateStatus(applicationID, status); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	application.Status = status
	h.hub.Publish("applications", realtime.EventUpdate, recordOf(application))
	return c.JSON(http.StatusOK, application)
}
