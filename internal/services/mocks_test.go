package services

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"workhub_backend/internal/models"
	"workhub_backend/internal/payments"
	"workhub_backend/internal/push"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/storage"

	"github.com/google/uuid"
)

// In-memory fakes for the repository and gateway interfaces. Each fake
// embeds the interface it stands in for, so only the methods a test
// exercises need an implementation.

type fakeUserRepo struct {
	repositories.UserRepository
	mu    sync.Mutex
	users map[string]*models.User

	quotaErr  error // forced ConsumeQuota result, nil means decrement
	granted   []string
	verified  map[string]bool
	cleared   []string
	pushByID  map[string][]string
	otpByID   map[string]string
	expiry    map[string]time.Time
	statusLog map[string]models.VerificationStatus
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{
		users:     make(map[string]*models.User),
		verified:  make(map[string]bool),
		pushByID:  make(map[string][]string),
		otpByID:   make(map[string]string),
		expiry:    make(map[string]time.Time),
		statusLog: make(map[string]models.VerificationStatus),
	}
	for _, u := range users {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByMobile(mobile string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Mobile == mobile {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateFields(id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if hash, ok := fields["password_hash"].(string); ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r *fakeUserRepo) SetOTP(id, code string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.otpByID[id] = code
	r.expiry[id] = expiry
	if u, ok := r.users[id]; ok {
		u.OTPCode = code
		e := expiry
		u.OTPExpiry = &e
	}
	return nil
}

func (r *fakeUserRepo) ClearOTP(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.otpByID, id)
	if u, ok := r.users[id]; ok {
		u.OTPCode = ""
		u.OTPExpiry = nil
	}
	return nil
}

func (r *fakeUserRepo) SetStatus(id string, status models.VerificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusLog[id] = status
	if u, ok := r.users[id]; ok {
		u.Status = status
	}
	return nil
}

func (r *fakeUserRepo) ConsumeQuota(id string, field repositories.QuotaField) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.quotaErr != nil {
		return r.quotaErr
	}
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	switch field {
	case repositories.QuotaProfileViews:
		if u.ProfileViews <= 0 {
			return repositories.ErrQuotaConsumed
		}
		u.ProfileViews--
	case repositories.QuotaResumeDownloads:
		if u.ResumeDownloads <= 0 {
			return repositories.ErrQuotaConsumed
		}
		u.ResumeDownloads--
	case repositories.QuotaJobPostings:
		if u.JobPostingLimit <= 0 {
			return repositories.ErrQuotaConsumed
		}
		u.JobPostingLimit--
	}
	return nil
}

func (r *fakeUserRepo) GrantEmployerQuota(id string, plan *models.PlanSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.granted = append(r.granted, id)
	if u, ok := r.users[id]; ok {
		u.HasSubscription = true
		u.ProfileViews += plan.ProfileViews
		u.ResumeDownloads += plan.ResumeDownloads
		u.JobPostingLimit += plan.JobPostingLimit
		u.DailyLimit += plan.DailyLimit
	}
	return nil
}

func (r *fakeUserRepo) SetEmployeeVerified(id string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verified[id] = verified
	if u, ok := r.users[id]; ok {
		u.IsVerified = verified
	}
	return nil
}

func (r *fakeUserRepo) ClearEmployerSubscription(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared = append(r.cleared, id)
	return nil
}

func (r *fakeUserRepo) GetPushTokens(id string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.pushByID[id]...), nil
}

func (r *fakeUserRepo) SetPushTokens(id string, tokens []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushByID[id] = append([]string(nil), tokens...)
	return nil
}

func (r *fakeUserRepo) AddPushToken(id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushByID[id] = append(r.pushByID[id], token)
	return nil
}

type fakeSubscriptionRepo struct {
	repositories.SubscriptionRepository
	mu     sync.Mutex
	subs   []*models.Subscription
	orders map[string]*models.PaymentOrder
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{orders: make(map[string]*models.PaymentOrder)}
}

func (r *fakeSubscriptionRepo) Create(sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	copied := *sub
	r.subs = append(r.subs, &copied)
	return nil
}

func (r *fakeSubscriptionRepo) FindActiveByUser(userID string) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.UserID == userID && s.Status == models.SubscriptionStatusActive {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repositories.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) FindHistoryByUser(userID string) ([]models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Subscription
	for _, s := range r.subs {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) Expire(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.ID == id {
			s.Status = models.SubscriptionStatusExpired
			return nil
		}
	}
	return repositories.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) CreateOrder(order *models.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	copied := *order
	r.orders[order.OrderID] = &copied
	return nil
}

func (r *fakeSubscriptionRepo) FindOrderByOrderID(orderID string) (*models.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

// MarkOrderPaid mirrors the production pending-guard: the transition to
// paid succeeds at most once.
func (r *fakeSubscriptionRepo) MarkOrderPaid(orderID string, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != models.PaymentStatusPending {
		return repositories.ErrOrderNotFound
	}
	o.Status = models.PaymentStatusPaid
	o.PaidAt = &paidAt
	return nil
}

type fakePlanRepo struct {
	repositories.PlanRepository
	plans map[string]*models.Plan
}

func newFakePlanRepo(plans ...*models.Plan) *fakePlanRepo {
	r := &fakePlanRepo{plans: make(map[string]*models.Plan)}
	for _, p := range plans {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		r.plans[p.ID] = p
	}
	return r
}

func (r *fakePlanRepo) FindByID(id string) (*models.Plan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, repositories.ErrPlanNotFound
	}
	copied := *p
	return &copied, nil
}

type fakeJobRepo struct {
	repositories.JobRepository
	mu    sync.Mutex
	jobs  map[string]*models.Job
	saved map[string]bool // "jobID/applicantID" save-toggle state

	users *fakeUserRepo // quota source for CreateConsumingQuota
}

func (r *fakeJobRepo) ToggleSaved(jobID, applicantID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved == nil {
		r.saved = make(map[string]bool)
	}
	key := jobID + "/" + applicantID
	if r.saved[key] {
		delete(r.saved, key)
		return false, nil
	}
	r.saved[key] = true
	return true, nil
}

func newFakeJobRepo(users *fakeUserRepo, jobs ...*models.Job) *fakeJobRepo {
	r := &fakeJobRepo{jobs: make(map[string]*models.Job), users: users}
	for _, j := range jobs {
		if j.ID == "" {
			j.ID = uuid.NewString()
		}
		r.jobs[j.ID] = j
	}
	return r
}

func (r *fakeJobRepo) CreateConsumingQuota(job *models.Job) error {
	if err := r.users.ConsumeQuota(job.EmployerID, repositories.QuotaJobPostings); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeJobRepo) FindByID(id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	copied := *j
	return &copied, nil
}

func (r *fakeJobRepo) IncrementViews(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		j.Views++
	}
	return nil
}

type fakeApplicationRepo struct {
	repositories.ApplicationRepository
	mu     sync.Mutex
	apps   map[string]*models.Application
	events map[string][]models.ApplicationStatusEvent
}

func newFakeApplicationRepo(apps ...*models.Application) *fakeApplicationRepo {
	r := &fakeApplicationRepo{
		apps:   make(map[string]*models.Application),
		events: make(map[string][]models.ApplicationStatusEvent),
	}
	for _, a := range apps {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		r.apps[a.ID] = a
	}
	return r
}

func (r *fakeApplicationRepo) Create(app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.JobID == app.JobID && existing.ApplicantID == app.ApplicantID {
			return repositories.ErrAlreadyApplied
		}
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	copied := *app
	r.apps[app.ID] = &copied
	return nil
}

func (r *fakeApplicationRepo) FindByID(id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeApplicationRepo) Transition(app *models.Application, event *models.ApplicationStatusEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *app
	r.apps[app.ID] = &copied
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	r.events[app.ID] = append(r.events[app.ID], *event)
	return nil
}

func (r *fakeApplicationRepo) ListEvents(applicationID string) ([]models.ApplicationStatusEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ApplicationStatusEvent(nil), r.events[applicationID]...), nil
}

type fakeNotificationRepo struct {
	repositories.NotificationRepository
	mu            sync.Mutex
	notifications map[string]*models.Notification
}

func newFakeNotificationRepo(notifications ...*models.Notification) *fakeNotificationRepo {
	r := &fakeNotificationRepo{notifications: make(map[string]*models.Notification)}
	for _, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		r.notifications[n.ID] = n
	}
	return r
}

func (r *fakeNotificationRepo) Create(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	copied := *notification
	r.notifications[notification.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) FindByID(id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, repositories.ErrNotificationNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotificationRepo) MarkRead(id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return repositories.ErrNotificationNotFound
	}
	if !n.IsRead {
		n.IsRead = true
		t := at
		n.ReadAt = &t
	}
	return nil
}

func (r *fakeNotificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notifications)
}

type fakePushClient struct {
	mu      sync.Mutex
	sent    [][]string
	invalid map[string]bool // tokens the gateway reports as dead
}

func newFakePushClient(invalid ...string) *fakePushClient {
	c := &fakePushClient{invalid: make(map[string]bool)}
	for _, t := range invalid {
		c.invalid[t] = true
	}
	return c
}

func (c *fakePushClient) Send(ctx context.Context, tokens []string, payload push.Payload) []push.DeliveryResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, append([]string(nil), tokens...))
	results := make([]push.DeliveryResult, 0, len(tokens))
	for _, t := range tokens {
		results = append(results, push.DeliveryResult{
			Token:        t,
			Delivered:    !c.invalid[t],
			InvalidToken: c.invalid[t],
		})
	}
	return results
}

func (c *fakePushClient) Enabled() bool { return true }

type fakeGateway struct {
	payments.Gateway
	validSignature bool
	orders         []*payments.Order
}

func (g *fakeGateway) CreateOrder(amount float64, description, email string) (*payments.Order, error) {
	order := &payments.Order{
		OrderID:    uuid.NewString(),
		PaymentURL: "https://pay.example.com/" + uuid.NewString(),
		Amount:     amount,
		Currency:   "INR",
		Status:     "created",
	}
	g.orders = append(g.orders, order)
	return order, nil
}

func (g *fakeGateway) VerifyResultSignature(amount float64, orderID, receivedSig string) bool {
	return g.validSignature
}

func (g *fakeGateway) Currency() string { return "INR" }

type fakeMailer struct {
	mu   sync.Mutex
	sent []string // recipient addresses
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func (m *fakeMailer) SendHTML(to, subject, html string) error { return m.Send(to, subject, html) }
func (m *fakeMailer) Close() error                            { return nil }

type fakeStorage struct {
	storage.Storage
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: make(map[string][]byte)}
}

func (s *fakeStorage) Save(ctx context.Context, path string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[path] = data
	return nil
}

func (s *fakeStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.saved[path]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved, path)
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *fakeStorage) GetURL(ctx context.Context, path string) (string, error) {
	return "https://files.example.com/" + path, nil
}

// fakeNotificationService records Notify calls for tests that only care
// that a notification went out.
type fakeNotificationService struct {
	NotificationService
	mu     sync.Mutex
	inputs []NotifyInput
}

func (s *fakeNotificationService) Notify(ctx context.Context, input NotifyInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, input)
	return nil
}

type fakeRefreshRepo struct {
	repositories.RefreshTokenRepository
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (r *fakeRefreshRepo) Create(token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *token
	r.tokens[token.Token] = &copied
	return nil
}

func (r *fakeRefreshRepo) FindByToken(token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, repositories.ErrRefreshTokenNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeRefreshRepo) Delete(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *fakeRefreshRepo) DeleteByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

func (r *fakeRefreshRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

type fakeUploadRepo struct {
	repositories.UploadRepository
	mu      sync.Mutex
	uploads map[string]*models.Upload
}

func newFakeUploadRepo() *fakeUploadRepo {
	return &fakeUploadRepo{uploads: make(map[string]*models.Upload)}
}

func (r *fakeUploadRepo) Create(upload *models.Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if upload.ID == "" {
		upload.ID = uuid.NewString()
	}
	copied := *upload
	r.uploads[upload.ID] = &copied
	return nil
}

func (r *fakeUploadRepo) FindByID(id string) (*models.Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uploads[id]
	if !ok {
		return nil, repositories.ErrUploadNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUploadRepo) ListByUser(userID string) ([]models.Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Upload
	for _, u := range r.uploads {
		if u.UserID == userID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUploadRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.uploads, id)
	return nil
}
