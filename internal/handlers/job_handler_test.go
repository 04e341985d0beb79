package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/realtime"
)

func jobFixture(t *testing.T) (*JobHandler, *fakeProfileRepo, *fakeJobRepo, *fakeApplicationRepo) {
	t.Helper()
	profiles := newFakeProfileRepo()
	jobs := newFakeJobRepo()
	applications := newFakeApplicationRepo()
	h := NewJobHandler(jobs, applications, profiles, realtime.NewHub())
	return h, profiles, jobs, applications
}

func TestCreateJobRequiresOrganization(t *testing.T) {
	h, profiles, _, _ := jobFixture(t)
	profiles.add(&models.Profile{Name: "Ada", Email: "ada@uni.edu", FirebaseUID: "uid-student", AccountType: models.AccountTypeStudent})

	body := `{"title":"Backend Intern","company":"Paystack","location":"Lagos","type":"internship"}`
	c, _ := newTestContext(t, http.MethodPost, "/jobs", body, "uid-student")

	err := h.CreateJob(c)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))
}

func TestCreateJobInheritsOwnerVerification(t *testing.T) {
	h, profiles, jobs, _ := jobFixture(t)
	profiles.add(&models.Profile{Name: "Paystack", Email: "jobs@paystack.com", FirebaseUID: "uid-org", AccountType: models.AccountTypeOrganization, IsVerified: true})

	body := `{"title":"Backend Intern","company":"Paystack","location":"Lagos","type":"internship","is_remote":true,"is_paid":true}`
	c, rec := newTestContext(t, http.MethodPost, "/jobs", body, "uid-org")

	require.NoError(t, h.CreateJob(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, jobs.jobs, 1)
	for _, job := range jobs.jobs {
		assert.True(t, job.Verified)
		assert.Equal(t, models.JobTypeInternship, job.Type)
	}
}

func TestCreateSIWESJobKeepsFlags(t *testing.T) {
	h, profiles, _, _ := jobFixture(t)
	profiles.add(&models.Profile{Name: "NNPC", Email: "it@nnpc.com", FirebaseUID: "uid-org", AccountType: models.AccountTypeOrganization})

	body := `{"title":"SIWES Placement","company":"NNPC","location":"Abuja","type":"siwes","is_paid":true}`
	c, rec := newTestContext(t, http.MethodPost, "/jobs", body, "uid-org")
	require.NoError(t, h.CreateJob(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	cList, recList := newTestContext(t, http.MethodGet, "/jobs", "", "uid-org")
	require.NoError(t, h.GetJobs(cList))

	var enriched []EnrichedJob
	require.NoError(t, json.Unmarshal(recList.Body.Bytes(), &enriched))
	require.Len(t, enriched, 1)
	assert.Equal(t, models.JobTypeSIWES, enriched[0].Type)
	assert.True(t, enriched[0].IsPaid)
	assert.False(t, enriched[0].IsRemote)
	assert.False(t, enriched[0].HasApplied)
}

func TestApplyOnceThenConflict(t *testing.T) {
	h, profiles, jobs, applications := jobFixture(t)
	org := profiles.add(&models.Profile{Name: "Paystack", Email: "jobs@paystack.com", FirebaseUID: "uid-org", AccountType: models.AccountTypeOrganization})
	profiles.add(&models.Profile{Name: "Ada", Email: "ada@uni.edu", FirebaseUID: "uid-student", AccountType: models.AccountTypeStudent})

	job := &models.Job{ProfileID: org.ID, Title: "Backend Intern", Type: models.JobTypeInternship}
	require.NoError(t, jobs.CreateJob(job))

	c, rec := newTestContext(t, http.MethodPost, "/jobs/"+job.ID+"/applications", "", "uid-student")
	c.SetParamNames("id")
	c.SetParamValues(job.ID)
	require.NoError(t, h.Apply(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	c2, _ := newTestContext(t, http.MethodPost, "/jobs/"+job.ID+"/applications", "", "uid-student")
	c2.SetParamNames("id")
	c2.SetParamValues(job.ID)
	err := h.Apply(c2)

	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
	// The duplicate attempt must not inflate the applicant count
	counts, _ := applications.CountByJobIDs([]string{job.ID})
	assert.Equal(t, int64(1), counts[job.ID])
}

func TestApplyRequiresStudent(t *testing.T) {
	h, profiles, jobs, _ := jobFixture(t)
	org := profiles.add(&models.Profile{Name: "Paystack", Email: "jobs@paystack.com", FirebaseUID: "uid-org", AccountType: models.AccountTypeOrganization})
	job := &models.Job{ProfileID: org.ID, Title: "Backend Intern"}
	require.NoError(t, jobs.CreateJob(job))

	c, _ := newTestContext(t, http.MethodPost, "/jobs/"+job.ID+"/applications", "", "uid-org")
	c.SetParamNames("id")
	c.SetParamValues(job.ID)

	err := h.Apply(c)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))
}

func TestGetJobsComputesViewerFields(t *testing.T) {
	h, profiles, jobs, applications := jobFixture(t)
	org := profiles.add(&models.Profile{Name: "Paystack", Email: "jobs@paystack.com", FirebaseUID: "uid-org", AccountType: models.AccountTypeOrganization})
	viewer := profiles.add(&models.Profile{Name: "Ada", Email: "ada@uni.edu", FirebaseUID: "uid-student", AccountType: models.AccountTypeStudent})
	other := profiles.add(&models.Profile{Name: "Bola", Email: "bola@uni.edu", FirebaseUID: "uid-other", AccountType: models.AccountTypeStudent})

	applied := &models.Job{ProfileID: org.ID, Title: "Applied role"}
	fresh := &models.Job{ProfileID: org.ID, Title: "Fresh role"}
	require.NoError(t, jobs.CreateJob(applied))
	require.NoError(t, jobs.CreateJob(fresh))
	require.NoError(t, applications.CreateApplication(&models.Application{JobID: applied.ID, ApplicantID: viewer.ID}))
	require.NoError(t, applications.CreateApplication(&models.Application{JobID: applied.ID, ApplicantID: other.ID}))

	c, rec := newTestContext(t, http.MethodGet, "/jobs", "", "uid-student")
	require.NoError(t, h.GetJobs(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var enriched []EnrichedJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enriched))
	require.Len(t, enriched, 2)

	byID := make(map[string]EnrichedJob, 2)
	for _, e := range enriched {
		byID[e.ID] = e
	}
	assert.Equal(t, int64(2), byID[applied.ID].ApplicantsCount)
	assert.True(t, byID[applied.ID].HasApplied)
	assert.Equal(t, int64(0), byID[fresh.ID].ApplicantsCount)
	assert.False(t, byID[fresh.ID].HasApplied)
}

func TestDeleteJobOwnerOnly(t *testing.T) {
	h, profiles, jobs, _ := jobFixture(t)
	owner := profiles.add(&models.Profile{Name: "Paystack", Email: "jobs@paystack.com", FirebaseUID: "uid-owner", AccountType: models.AccountTypeOrganization})
	profiles.add(&models.Profile{Name: "Kuda", Email: "jobs@kuda.com", FirebaseUID: "uid-rival", AccountType: models.AccountTypeOrganization})

	job := &models.Job{ProfileID: owner.ID, Title: "Backend Intern"}
	require.NoError(t, jobs.CreateJob(job))

	c, _ := newTestContext(t, http.MethodDelete, "/jobs/"+job.ID, "", "uid-rival")
	c.SetParamNames("id")
	c.SetParamValues(job.ID)
	err := h.DeleteJob(c)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))
	assert.Len(t, jobs.jobs, 1)

	c2, rec := newTestContext(t, http.MethodDelete, "/jobs/"+job.ID, "", "uid-owner")
	c2.SetParamNames("id")
	c2.SetParamValues(job.ID)
	require.NoError(t, h.DeleteJob(c2))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, jobs.jobs)
}

func TestUpdateApplicationStatusOwnerOnly(t *testing.T) {
	h, profiles, jobs, applications := jobFixture(t)
	owner := profiles.add(&models.Profile{Name: "Paystack", Email: "jobs@paystack.com", FirebaseUID: "uid-owner", AccountType: models.AccountTypeOrganization})
	student := profiles.add(&models.Profile{Name: "Ada", Email: "ada@uni.edu", FirebaseUID: "uid-student", AccountType: models.AccountTypeStudent})

	job := &models.Job{ProfileID: owner.ID, Title: "Backend Intern"}
	require.NoError(t, jobs.CreateJob(job))
	application := &models.Application{JobID: job.ID, ApplicantID: student.ID, Status: models.ApplicationStatusPending}
	require.NoError(t, applications.CreateApplication(application))

	body := `{"status":"accepted"}`
	c, _ := newTestContext(t, http.MethodPut, "/applications/"+application.ID+"/status", body, "uid-student")
	c.SetParamNames("id")
	c.SetParamValues(application.ID)
	err := h.UpdateApplicationStatus(c)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))

	c2, rec := newTestContext(t, http.MethodPut, "/applications/"+application.ID+"/status", body, "uid-owner")
	c2.SetParamNames("id")
	c2.SetParamValues(application.ID)
	require.NoError(t, h.UpdateApplicationStatus(c2))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ApplicationStatusAccepted, application.Status)
}
