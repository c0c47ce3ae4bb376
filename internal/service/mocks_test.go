package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/mailer"
)

// fakeUsers is an in-memory UsersRepo.
type fakeUsers struct {
	byID   map[int64]*domain.User
	nextID int64
	err    error
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{byID: map[int64]*domain.User{}, nextID: 100}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) CreateHost(ctx context.Context, companyID int64, companyName string, in *domain.CreateHostRequest, hash string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == in.Email {
			return nil, domain.ErrEmailExists
		}
	}
	f.nextID++
	u := &domain.User{
		ID: f.nextID, Name: in.Name, Email: in.Email, PasswordHash: hash, Role: domain.RoleHost,
		CompanyID: companyID, CompanyName: companyName, IsVerified: true, IsActive: true,
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func (f *fakeUsers) FindInCompany(ctx context.Context, companyID, id int64) (*domain.User, error) {
	u, err := f.FindByID(ctx, id)
	if err != nil || u == nil || u.CompanyID != companyID {
		return nil, err
	}
	return u, nil
}

func (f *fakeUsers) ListByCompany(ctx context.Context, companyID int64, limit, offset int) ([]domain.User, int64, error) {
	var out []domain.User
	for _, u := range f.byID {
		if u.CompanyID == companyID {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), f.err
}

func (f *fakeUsers) ListHosts(ctx context.Context, companyID int64) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.byID {
		if u.CompanyID == companyID && u.IsActive {
			out = append(out, *u)
		}
	}
	return out, f.err
}

func (f *fakeUsers) Update(ctx context.Context, companyID, id int64, in *domain.UpdateUserRequest) (*domain.User, error) {
	u, _ := f.FindInCompany(ctx, companyID, id)
	if u == nil {
		return nil, f.err
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	return u, nil
}

func (f *fakeUsers) SetActive(ctx context.Context, companyID, id int64, active bool) (bool, error) {
	u, _ := f.FindInCompany(ctx, companyID, id)
	if u == nil {
		return false, f.err
	}
	u.IsActive = active
	return true, nil
}

type fakeCompanies struct {
	company *domain.Company
	admin   *domain.User
	err     error
}

func (f *fakeCompanies) RegisterWithAdmin(ctx context.Context, in *domain.RegisterRequest, hash string) (*domain.Company, *domain.User, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.company = &domain.Company{ID: 1, Name: in.CompanyName}
	f.admin = &domain.User{
		ID: 1, Name: in.Name, Email: in.Email, PasswordHash: hash, Role: domain.RoleAdmin,
		CompanyID: 1, CompanyName: in.CompanyName, IsActive: true,
	}
	return f.company, f.admin, nil
}

func (f *fakeCompanies) Get(ctx context.Context, id int64) (*domain.Company, error) {
	if f.company == nil || f.company.ID != id {
		return nil, f.err
	}
	return f.company, nil
}

func (f *fakeCompanies) Update(ctx context.Context, id int64, in *domain.UpdateCompanyRequest) (*domain.Company, error) {
	if f.company == nil || f.company.ID != id {
		return nil, f.err
	}
	if in.Name != nil {
		f.company.Name = *in.Name
	}
	return f.company, nil
}

type fakeVerify struct {
	tokens map[string]int64
	err    error
}

func (f *fakeVerify) CreateEmailVerification(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	if f.tokens == nil {
		f.tokens = map[string]int64{}
	}
	f.tokens[token] = userID
	return nil
}

func (f *fakeVerify) ConsumeEmailVerification(ctx context.Context, token string) (int64, error) {
	id := f.tokens[token]
	delete(f.tokens, token)
	return id, f.err
}

func (f *fakeVerify) DeleteExpiredTokens(ctx context.Context) (int64, error) { return 0, nil }

type fakeVisits struct {
	checkIns   []*domain.NewCheckIn
	checkInErr error
	checkOut   *domain.CheckOutResult
	outErr     error
	outScope   domain.VisitScope
	visit      *domain.Visit
	listScope  domain.VisitScope
}

func (f *fakeVisits) CheckIn(ctx context.Context, in *domain.NewCheckIn) (*domain.Visit, error) {
	f.checkIns = append(f.checkIns, in)
	if f.checkInErr != nil {
		return nil, f.checkInErr
	}
	return &domain.Visit{
		ID: 10, CompanyID: in.CompanyID, HostID: in.HostID, PreRegistrationID: in.PreRegistrationID,
		CheckInTime: time.Now(), Status: domain.VisitStatusCheckedIn,
		HostName: "Host", HostEmail: "host@example.com",
		Visitor: &in.Visitor,
	}, nil
}

func (f *fakeVisits) CheckOut(ctx context.Context, scope domain.VisitScope, id int64) (*domain.CheckOutResult, error) {
	f.outScope = scope
	return f.checkOut, f.outErr
}

func (f *fakeVisits) Get(ctx context.Context, scope domain.VisitScope, id int64) (*domain.Visit, error) {
	return f.visit, nil
}

func (f *fakeVisits) List(ctx context.Context, scope domain.VisitScope, flt domain.VisitFilter) ([]domain.Visit, int64, error) {
	f.listScope = scope
	return nil, 0, nil
}

type fakePreRegs struct {
	byID        map[int64]*domain.PreRegistration
	created     *domain.PreRegistration
	expireCalls int
	pending     int64
}

func newFakePreRegs(ps ...*domain.PreRegistration) *fakePreRegs {
	f := &fakePreRegs{byID: map[int64]*domain.PreRegistration{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakePreRegs) Create(ctx context.Context, p *domain.PreRegistration) (*domain.PreRegistration, error) {
	cp := *p
	cp.ID = int64(len(f.byID) + 1)
	cp.Status = domain.PreRegPending
	f.byID[cp.ID] = &cp
	f.created = &cp
	return &cp, nil
}

func (f *fakePreRegs) GetByID(ctx context.Context, scope domain.VisitScope, id int64) (*domain.PreRegistration, error) {
	p := f.byID[id]
	if p == nil || p.CompanyID != scope.CompanyID || (scope.HostID != 0 && p.HostID != scope.HostID) {
		return nil, nil
	}
	return p, nil
}

func (f *fakePreRegs) GetByQRCode(ctx context.Context, companyID int64, code string) (*domain.PreRegistration, error) {
	for _, p := range f.byID {
		if p.QRCode == code && p.CompanyID == companyID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePreRegs) List(ctx context.Context, scope domain.VisitScope, flt domain.PreRegFilter) ([]domain.PreRegistration, int64, error) {
	var out []domain.PreRegistration
	for _, p := range f.byID {
		if p.CompanyID == scope.CompanyID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakePreRegs) Cancel(ctx context.Context, scope domain.VisitScope, id int64) (*domain.PreRegistration, bool, error) {
	p, _ := f.GetByID(ctx, scope, id)
	if p == nil {
		return nil, false, nil
	}
	if p.Status != domain.PreRegPending {
		return p, false, nil
	}
	p.Status = domain.PreRegCancelled
	return p, true, nil
}

func (f *fakePreRegs) ExpireStale(ctx context.Context, companyID int64, today time.Time) (int64, error) {
	f.expireCalls++
	return 0, nil
}

func (f *fakePreRegs) CountPending(ctx context.Context, scope domain.VisitScope) (int64, error) {
	return f.pending, nil
}

type fakeMailer struct {
	mu           sync.Mutex
	verification []string
	invites      []mailer.Invite
	arrivals     []mailer.Arrival
	err          error
}

func (m *fakeMailer) SendVerificationEmail(ctx context.Context, toEmail, toName, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verification = append(m.verification, link)
	return m.err
}

func (m *fakeMailer) SendPreRegistrationInvite(ctx context.Context, inv mailer.Invite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites = append(m.invites, inv)
	return m.err
}

func (m *fakeMailer) SendHostArrival(ctx context.Context, a mailer.Arrival) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.arrivals = append(m.arrivals, a)
	return m.err
}

type published struct {
	subject string
	data    interface{}
}

type fakeBus struct {
	events []published
	err    error
}

func (b *fakeBus) Publish(ctx context.Context, subject string, data interface{}) error {
	b.events = append(b.events, published{subject, data})
	return b.err
}

var errBoom = errors.New("boom")
