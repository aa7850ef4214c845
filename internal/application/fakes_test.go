package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	"github.com/campnet-io/campnet-backend/internal/domain/event"
	repo "github.com/campnet-io/campnet-backend/internal/domain/repository"
)

// In-memory fakes for the repository interfaces. They mirror the postgres
// implementations' contracts: nil-with-error on missing rows, duplicate
// detection, grouped replies.

type fakeUserRepo struct {
	seq       int
	users     map[string]*entity.User
	followers map[string][]entity.UserRef
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}, followers: map[string][]entity.UserRef{}}
}

func (f *fakeUserRepo) add(name, email string) *entity.User {
	f.seq++
	u := &entity.User{
		ID:         fmt.Sprintf("user-%d", f.seq),
		Email:      email,
		Name:       name,
		Phone:      fmt.Sprintf("+1555000%04d", f.seq),
		Role:       entity.RoleUser,
		IsVerified: true,
		CreatedAt:  time.Now(),
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	u.CreatedAt = time.Now()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (f *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return fmt.Errorf("not found")
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	u.Password = hash
	return nil
}

func (f *fakeUserRepo) SetVerifyPin(_ context.Context, id, pin string) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	u.VerifyPin = pin
	return nil
}

func (f *fakeUserRepo) VerifyByPin(_ context.Context, pin string) (*entity.User, error) {
	if pin == "" {
		return nil, nil
	}
	for _, u := range f.users {
		if u.VerifyPin == pin {
			u.VerifyPin = ""
			u.IsVerified = true
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) SetBanned(_ context.Context, id string, banned bool) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	u.IsBanned = banned
	return nil
}

func (f *fakeUserRepo) SetRole(_ context.Context, id, role string) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	u.Role = role
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("not found")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, fl repo.ListUsersFilter) ([]entity.User, int, error) {
	ids := make([]string, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		u := f.users[id]
		if fl.Role != "" && u.Role != fl.Role {
			continue
		}
		if fl.Search != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(fl.Search)) {
			continue
		}
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeUserRepo) Followers(_ context.Context, userID string) ([]entity.UserRef, error) {
	return f.followers[userID], nil
}

type fakeFollowRepo struct {
	edges  map[string]*entity.FollowEdge
	users  *fakeUserRepo
	seq    int
	linked [][2]string // (user, follower) pairs recorded by Accept
}

func newFakeFollowRepo(users *fakeUserRepo) *fakeFollowRepo {
	return &fakeFollowRepo{edges: map[string]*entity.FollowEdge{}, users: users}
}

func edgeKey(by, to string) string { return by + "|" + to }

func (f *fakeFollowRepo) Create(_ context.Context, by, to string) (*entity.FollowEdge, error) {
	if _, ok := f.edges[edgeKey(by, to)]; ok {
		return nil, repo.ErrDuplicateFollow
	}
	f.seq++
	e := &entity.FollowEdge{
		ID:        fmt.Sprintf("edge-%d", f.seq),
		ByID:      by,
		ToID:      to,
		Status:    entity.FollowPending,
		CreatedAt: time.Now(),
	}
	f.edges[edgeKey(by, to)] = e
	return e, nil
}

func (f *fakeFollowRepo) Get(_ context.Context, by, to string) (*entity.FollowEdge, error) {
	return f.edges[edgeKey(by, to)], nil
}

func (f *fakeFollowRepo) PendingForReceiver(_ context.Context, userID string) ([]entity.FollowRequest, error) {
	var out []entity.FollowRequest
	for _, e := range f.edges {
		if e.ToID != userID || e.Status != entity.FollowPending {
			continue
		}
		fr := entity.FollowRequest{Edge: *e}
		if u, ok := f.users.users[e.ByID]; ok {
			fr.By = u.Ref()
		}
		out = append(out, fr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Edge.ID < out[j].Edge.ID })
	return out, nil
}

func (f *fakeFollowRepo) Accept(_ context.Context, by, to string) (*entity.FollowEdge, error) {
	e, ok := f.edges[edgeKey(by, to)]
	if !ok || e.Status != entity.FollowPending {
		return nil, nil
	}
	e.Status = entity.FollowAccepted
	// mutual follower linkage, as the transactional accept does
	f.linked = append(f.linked, [2]string{to, by}, [2]string{by, to})
	if f.users != nil {
		if u, ok := f.users.users[by]; ok {
			f.users.followers[to] = append(f.users.followers[to], u.Ref())
		}
		if u, ok := f.users.users[to]; ok {
			f.users.followers[by] = append(f.users.followers[by], u.Ref())
		}
	}
	return e, nil
}

func (f *fakeFollowRepo) Delete(_ context.Context, by, to string) (bool, error) {
	if _, ok := f.edges[edgeKey(by, to)]; !ok {
		return false, nil
	}
	delete(f.edges, edgeKey(by, to))
	return true, nil
}

type fakeNotifRepo struct {
	seq   int
	items []*entity.Notification
}

func (f *fakeNotifRepo) Create(_ context.Context, n *entity.Notification) error {
	f.seq++
	n.ID = fmt.Sprintf("notif-%d", f.seq)
	n.CreatedAt = time.Now()
	f.items = append(f.items, n)
	return nil
}

func (f *fakeNotifRepo) Unread(_ context.Context, receiverID, typeFilter string) ([]entity.Notification, error) {
	var out []entity.Notification
	for i := len(f.items) - 1; i >= 0; i-- {
		n := f.items[i]
		if n.ReceiverID != receiverID || n.MarkRead {
			continue
		}
		if typeFilter != "" && n.Type != typeFilter {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (f *fakeNotifRepo) MarkRead(_ context.Context, id string) (*entity.Notification, error) {
	for _, n := range f.items {
		if n.ID == id {
			n.MarkRead = true
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNotifRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range f.items {
		if n.ReceiverID == userID || n.SenderID == userID {
			n.MarkRead = true
		}
	}
	return nil
}

type fakeCourseRepo struct {
	seq      int
	courses  map[string]*entity.Course
	enrolled map[string][]string
	reviews  map[string]*entity.Review
	users    *fakeUserRepo
}

func newFakeCourseRepo(users *fakeUserRepo) *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:  map[string]*entity.Course{},
		enrolled: map[string][]string{},
		reviews:  map[string]*entity.Review{},
		users:    users,
	}
}

func (f *fakeCourseRepo) Create(_ context.Context, c *entity.Course) error {
	f.seq++
	c.ID = fmt.Sprintf("course-%d", f.seq)
	c.CreatedAt = time.Now()
	f.courses[c.ID] = c
	return nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id string) (*entity.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return c, nil
}

func (f *fakeCourseRepo) Update(_ context.Context, c *entity.Course) error {
	if _, ok := f.courses[c.ID]; !ok {
		return fmt.Errorf("not found")
	}
	f.courses[c.ID] = c
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id string) error {
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) List(_ context.Context) ([]entity.Course, error) {
	ids := make([]string, 0, len(f.courses))
	for id := range f.courses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]entity.Course, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.courses[id])
	}
	return out, nil
}

func (f *fakeCourseRepo) Enroll(_ context.Context, courseID, userID string) (bool, error) {
	for _, id := range f.enrolled[courseID] {
		if id == userID {
			return false, nil
		}
	}
	f.enrolled[courseID] = append(f.enrolled[courseID], userID)
	return true, nil
}

func (f *fakeCourseRepo) Enrolments(_ context.Context, courseID string) ([]entity.UserRef, error) {
	var out []entity.UserRef
	for _, id := range f.enrolled[courseID] {
		if u, ok := f.users.users[id]; ok {
			out = append(out, u.Ref())
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) CreateReview(_ context.Context, r *entity.Review) error {
	for _, existing := range f.reviews {
		if existing.CourseID == r.CourseID && existing.UserID == r.UserID {
			return fmt.Errorf("duplicate review")
		}
	}
	f.seq++
	r.ID = fmt.Sprintf("review-%d", f.seq)
	r.CreatedAt = time.Now()
	f.reviews[r.ID] = r
	return nil
}

func (f *fakeCourseRepo) GetReview(_ context.Context, id string) (*entity.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return r, nil
}

func (f *fakeCourseRepo) UpdateReview(_ context.Context, r *entity.Review) error {
	if _, ok := f.reviews[r.ID]; !ok {
		return fmt.Errorf("not found")
	}
	f.reviews[r.ID] = r
	return nil
}

func (f *fakeCourseRepo) DeleteReview(_ context.Context, id string) error {
	delete(f.reviews, id)
	return nil
}

func (f *fakeCourseRepo) ReviewsForCourse(_ context.Context, courseID string) ([]entity.Review, error) {
	ids := make([]string, 0, len(f.reviews))
	for id, r := range f.reviews {
		if r.CourseID == courseID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]entity.Review, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.reviews[id])
	}
	return out, nil
}

type fakeCommentRepo struct {
	seq      int
	comments map[string]*entity.Comment
	users    *fakeUserRepo
}

func newFakeCommentRepo(users *fakeUserRepo) *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*entity.Comment{}, users: users}
}

func (f *fakeCommentRepo) Create(_ context.Context, c *entity.Comment) error {
	f.seq++
	c.ID = fmt.Sprintf("comment-%d", f.seq)
	c.CreatedAt = time.Now()
	f.comments[c.ID] = c
	return nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id string) (*entity.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return c, nil
}

func (f *fakeCommentRepo) UpdateBody(_ context.Context, id, body string) (*entity.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	c.Body = body
	return c, nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id string) error {
	delete(f.comments, id)
	for cid, c := range f.comments {
		if c.ParentID == id {
			delete(f.comments, cid)
		}
	}
	return nil
}

func (f *fakeCommentRepo) ForCourse(_ context.Context, courseID string) ([]entity.Comment, error) {
	ids := make([]string, 0, len(f.comments))
	for id, c := range f.comments {
		if c.CourseID == courseID && c.ParentID == "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]entity.Comment, 0, len(ids))
	for _, id := range ids {
		top := *f.comments[id]
		if u, ok := f.users.users[top.SenderID]; ok {
			ref := u.Ref()
			top.Sender = &ref
		}
		var replyIDs []string
		for rid, c := range f.comments {
			if c.ParentID == id {
				replyIDs = append(replyIDs, rid)
			}
		}
		sort.Strings(replyIDs)
		for _, rid := range replyIDs {
			top.Replies = append(top.Replies, *f.comments[rid])
		}
		out = append(out, top)
	}
	return out, nil
}

// recordBus captures published events in order.
type recordBus struct {
	events []event.Event
}

func (b *recordBus) Publish(_ context.Context, ev event.Event) { b.events = append(b.events, ev) }
func (b *recordBus) Subscribe(event.Handler)                   {}
