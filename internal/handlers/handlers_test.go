package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/validators"
)

// Shared in-memory repository fakes keyed the same way the Postgres
// implementations are.

type fakeProfileRepo struct {
	byID  map[string]*models.Profile
	byUID map[string]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		byID:  make(map[string]*models.Profile),
		byUID: make(map[string]*models.Profile),
	}
}

func (r *fakeProfileRepo) add(p *models.Profile) *models.Profile {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.byID[p.ID] = p
	if p.FirebaseUID != "" {
		r.byUID[p.FirebaseUID] = p
	}
	return p
}

func (r *fakeProfileRepo) CreateProfile(p *models.Profile) error {
	for _, existing := range r.byID {
		if existing.Email == p.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.add(p)
	return nil
}

func (r *fakeProfileRepo) GetProfileByID(id string) (*models.Profile, error) {
	if p, ok := r.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) GetProfileByFirebaseUID(uid string) (*models.Profile, error) {
	if p, ok := r.byUID[uid]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) UpdateProfile(id string, updates map[string]any) error {
	p, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		p.Name = name
	}
	if avatar, ok := updates["avatar_url"].(string); ok {
		p.AvatarURL = avatar
	}
	if bio, ok := updates["bio"].(string); ok {
		p.Bio = bio
	}
	return nil
}

func (r *fakeProfileRepo) UpsertStudentPayload(payload *models.StudentProfile) error {
	if p, ok := r.byID[payload.ProfileID]; ok {
		p.Student = payload
	}
	return nil
}

func (r *fakeProfileRepo) UpsertOrganizationPayload(payload *models.OrganizationProfile) error {
	if p, ok := r.byID[payload.ProfileID]; ok {
		p.Organization = payload
	}
	return nil
}

func (r *fakeProfileRepo) SetVerified(id string, verified bool) error {
	p, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsVerified = verified
	return nil
}

func (r *fakeProfileRepo) ListProfiles(limit int) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0, len(r.byID))
	for _, p := range r.byID {
		profiles = append(profiles, *p)
	}
	return profiles, nil
}

type fakePostRepo struct {
	posts map[string]*models.Post
	// authorCampus maps author profile ids to their university, standing
	// in for the student_profiles join
	authorCampus  map[string]string
	campusQueries []string
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:        make(map[string]*models.Post),
		authorCampus: make(map[string]string),
	}
}

func (r *fakePostRepo) CreatePost(p *models.Post) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.posts[p.ID] = p
	return nil
}

func (r *fakePostRepo) GetPostByID(id string) (*models.Post, error) {
	if p, ok := r.posts[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePostRepo) GetAllPosts(offset, limit int) ([]models.Post, error) {
	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, *p)
	}
	return posts, nil
}

func (r *fakePostRepo) GetPostsByUniversity(university string, offset, limit int) ([]models.Post, error) {
	r.campusQueries = append(r.campusQueries, university)
	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if strings.EqualFold(r.authorCampus[p.ProfileID], university) {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

func (r *fakePostRepo) AdjustLikesCount(postID string, delta int) error {
	p, ok := r.posts[postID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.LikesCount += delta
	if p.LikesCount < 0 {
		p.LikesCount = 0
	}
	return nil
}

func (r *fakePostRepo) AdjustCommentsCount(postID string, delta int) error {
	p, ok := r.posts[postID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CommentsCount += delta
	if p.CommentsCount < 0 {
		p.CommentsCount = 0
	}
	return nil
}

type likeKey struct{ postID, profileID string }

type fakeLikeRepo struct {
	likes map[likeKey]bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[likeKey]bool)}
}

func (r *fakeLikeRepo) CreateLike(like *models.PostLike) error {
	key := likeKey{like.PostID, like.ProfileID}
	if r.likes[key] {
		return gorm.ErrDuplicatedKey
	}
	r.likes[key] = true
	return nil
}

func (r *fakeLikeRepo) DeleteLike(postID, profileID string) error {
	key := likeKey{postID, profileID}
	if !r.likes[key] {
		return errMissingLike
	}
	delete(r.likes, key)
	return nil
}

func (r *fakeLikeRepo) HasProfileLikedPost(postID, profileID string) (bool, error) {
	return r.likes[likeKey{postID, profileID}], nil
}

func (r *fakeLikeRepo) GetLikesCountByPostID(postID string) (int64, error) {
	var count int64
	for key := range r.likes {
		if key.postID == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) GetLikedPostIDs(profileID string) (map[string]bool, error) {
	liked := make(map[string]bool)
	for key := range r.likes {
		if key.profileID == profileID {
			liked[key.postID] = true
		}
	}
	return liked, nil
}

type fakeNotificationRepo struct {
	created []*models.Notification
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipientID(recipientID string, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.created {
		if n.RecipientID == recipientID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientID string) (int64, error) {
	var count int64
	for _, n := range r.created {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(notificationID, recipientID string) error {
	for _, n := range r.created {
		if n.ID == notificationID && n.RecipientID == recipientID {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(recipientID string) error {
	for _, n := range r.created {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

type fakeJobRepo struct {
	jobs map[string]*models.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*models.Job)}
}

func (r *fakeJobRepo) CreateJob(j *models.Job) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	r.jobs[j.ID] = j
	return nil
}

func (r *fakeJobRepo) GetJobByID(id string) (*models.Job, error) {
	if j, ok := r.jobs[id]; ok {
		return j, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeJobRepo) GetAllJobs(limit int) ([]models.Job, error) {
	jobs := make([]models.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

func (r *fakeJobRepo) DeleteJob(id string) error {
	if _, ok := r.jobs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.jobs, id)
	return nil
}

type applicationKey struct{ jobID, applicantID string }

type fakeApplicationRepo struct {
	byID   map[string]*models.Application
	byPair map[applicationKey]*models.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{
		byID:   make(map[string]*models.Application),
		byPair: make(map[applicationKey]*models.Application),
	}
}

func (r *fakeApplicationRepo) CreateApplication(a *models.Application) error {
	key := applicationKey{a.JobID, a.ApplicantID}
	if _, ok := r.byPair[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	r.byID[a.ID] = a
	r.byPair[key] = a
	return nil
}

func (r *fakeApplicationRepo) GetApplicationByID(id string) (*models.Application, error) {
	if a, ok := r.byID[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeApplicationRepo) HasApplied(jobID, applicantID string) (bool, error) {
	_, ok := r.byPair[applicationKey{jobID, applicantID}]
	return ok, nil
}

func (r *fakeApplicationRepo) GetApplicationsByJobID(jobID string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range r.byID {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) CountByJobIDs(jobIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, a := range r.byID {
		counts[a.JobID]++
	}
	return counts, nil
}

func (r *fakeApplicationRepo) GetAppliedJobIDs(applicantID string) (map[string]bool, error) {
	applied := make(map[string]bool)
	for _, a := range r.byID {
		if a.ApplicantID == applicantID {
			applied[a.JobID] = true
		}
	}
	return applied, nil
}

func (r *fakeApplicationRepo) UpdateStatus(id string, status models.ApplicationStatus) error {
	a, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	return nil
}

type fakeConnectionRepo struct {
	byID map[string]*models.Connection
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{byID: make(map[string]*models.Connection)}
}

func (r *fakeConnectionRepo) CreateConnection(c *models.Connection) error {
	for _, existing := range r.byID {
		if existing.RequesterID == c.RequesterID && existing.RecipientID == c.RecipientID {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.byID[c.ID] = c
	return nil
}

func (r *fakeConnectionRepo) GetConnectionByID(id string) (*models.Connection, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeConnectionRepo) GetConnectionBetween(a, b string) (*models.Connection, error) {
	for _, c := range r.byID {
		if (c.RequesterID == a && c.RecipientID == b) || (c.RequesterID == b && c.RecipientID == a) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeConnectionRepo) GetConnectionsForProfile(profileID string) ([]models.Connection, error) {
	var out []models.Connection
	for _, c := range r.byID {
		if c.RequesterID == profileID || c.RecipientID == profileID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) UpdateStatus(id string, status models.ConnectionStatus) error {
	c, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Status = status
	return nil
}

var errMissingLike = likeNotFoundError{}

type likeNotFoundError struct{}

func (likeNotFoundError) Error() string { return "like not found" }

// newTestContext builds an authenticated echo context the way the auth
// middleware leaves it
func newTestContext(t *testing.T, method, target, body, firebaseUID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if firebaseUID != "" {
		c.Set("firebaseUID", firebaseUID)
	}
	return c, rec
}

// httpStatus unwraps echo's error type for assertions on handler returns
func httpStatus(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}
