package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"suggestbox/api/internal/authpw"
	"suggestbox/api/internal/config"
	"suggestbox/api/internal/export"
	"suggestbox/api/internal/store"
)

type fakeStore struct {
	getUserByIDFn           func(context.Context, string) (store.User, error)
	getUserByEmailFn        func(context.Context, string) (store.User, error)
	createUserFn            func(context.Context, store.User) error
	setUserStaffFn          func(context.Context, string, bool) error
	insertCategoryFn        func(context.Context, store.Category) error
	getOrCreateCategoryFn   func(context.Context, string, string) (store.Category, bool, error)
	getCategoryFn           func(context.Context, string) (store.Category, error)
	listCategoriesFn        func(context.Context) ([]store.Category, error)
	replaceAssignmentFn     func(context.Context, string, []string) error
	assignedCategoryIDsFn   func(context.Context, string) ([]string, error)
	insertSuggestionFn      func(context.Context, store.Suggestion) error
	getSuggestionFn         func(context.Context, string) (store.Suggestion, error)
	listSuggestionsFn       func(context.Context) ([]store.Suggestion, error)
	listByCategoriesFn      func(context.Context, []string) ([]store.Suggestion, error)
	listByAuthorFn          func(context.Context, string) ([]store.Suggestion, error)
	updateSuggestionStatusFn func(context.Context, string, string) error
	insertReplyFn           func(context.Context, store.Reply) error
	listRepliesFn           func(context.Context, string) ([]store.Reply, error)
}

func (f *fakeStore) GetUserByID(ctx context.Context, userID string) (store.User, error) {
	if f.getUserByIDFn != nil {
		return f.getUserByIDFn(ctx, userID)
	}
	return store.User{}, sql.ErrNoRows
}
func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	if f.getUserByEmailFn != nil {
		return f.getUserByEmailFn(ctx, email)
	}
	return store.User{}, sql.ErrNoRows
}
func (f *fakeStore) CreateUser(ctx context.Context, user store.User) error {
	if f.createUserFn != nil {
		return f.createUserFn(ctx, user)
	}
	return nil
}
func (f *fakeStore) UpdateUserPassword(context.Context, string, string) error { return nil }
func (f *fakeStore) CreatePasswordReset(context.Context, string, string, time.Time) error {
	return nil
}
func (f *fakeStore) GetPasswordReset(context.Context, string) (string, error) {
	return "", sql.ErrNoRows
}
func (f *fakeStore) MarkPasswordResetUsed(context.Context, string) error { return nil }
func (f *fakeStore) SetUserStaff(ctx context.Context, userID string, staff bool) error {
	if f.setUserStaffFn != nil {
		return f.setUserStaffFn(ctx, userID, staff)
	}
	return nil
}
func (f *fakeStore) InsertCategory(ctx context.Context, category store.Category) error {
	if f.insertCategoryFn != nil {
		return f.insertCategoryFn(ctx, category)
	}
	return nil
}
func (f *fakeStore) GetOrCreateCategory(ctx context.Context, id, name string) (store.Category, bool, error) {
	if f.getOrCreateCategoryFn != nil {
		return f.getOrCreateCategoryFn(ctx, id, name)
	}
	return store.Category{ID: id, Name: name}, true, nil
}
func (f *fakeStore) GetCategory(ctx context.Context, categoryID string) (store.Category, error) {
	if f.getCategoryFn != nil {
		return f.getCategoryFn(ctx, categoryID)
	}
	return store.Category{}, sql.ErrNoRows
}
func (f *fakeStore) ListCategories(ctx context.Context) ([]store.Category, error) {
	if f.listCategoriesFn != nil {
		return f.listCategoriesFn(ctx)
	}
	return nil, nil
}
func (f *fakeStore) ReplaceAssignment(ctx context.Context, userID string, categoryIDs []string) error {
	if f.replaceAssignmentFn != nil {
		return f.replaceAssignmentFn(ctx, userID, categoryIDs)
	}
	return nil
}
func (f *fakeStore) AssignedCategoryIDs(ctx context.Context, userID string) ([]string, error) {
	if f.assignedCategoryIDsFn != nil {
		return f.assignedCategoryIDsFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeStore) InsertSuggestion(ctx context.Context, item store.Suggestion) error {
	if f.insertSuggestionFn != nil {
		return f.insertSuggestionFn(ctx, item)
	}
	return nil
}
func (f *fakeStore) GetSuggestion(ctx context.Context, suggestionID string) (store.Suggestion, error) {
	if f.getSuggestionFn != nil {
		return f.getSuggestionFn(ctx, suggestionID)
	}
	return store.Suggestion{}, sql.ErrNoRows
}
func (f *fakeStore) ListSuggestions(ctx context.Context) ([]store.Suggestion, error) {
	if f.listSuggestionsFn != nil {
		return f.listSuggestionsFn(ctx)
	}
	return nil, nil
}
func (f *fakeStore) ListSuggestionsByCategories(ctx context.Context, categoryIDs []string) ([]store.Suggestion, error) {
	if f.listByCategoriesFn != nil {
		return f.listByCategoriesFn(ctx, categoryIDs)
	}
	return nil, nil
}
func (f *fakeStore) ListSuggestionsByAuthor(ctx context.Context, userID string) ([]store.Suggestion, error) {
	if f.listByAuthorFn != nil {
		return f.listByAuthorFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeStore) UpdateSuggestionStatus(ctx context.Context, suggestionID, status string) error {
	if f.updateSuggestionStatusFn != nil {
		return f.updateSuggestionStatusFn(ctx, suggestionID, status)
	}
	return nil
}
func (f *fakeStore) InsertReply(ctx context.Context, reply store.Reply) error {
	if f.insertReplyFn != nil {
		return f.insertReplyFn(ctx, reply)
	}
	return nil
}
func (f *fakeStore) ListReplies(ctx context.Context, suggestionID string) ([]store.Reply, error) {
	if f.listRepliesFn != nil {
		return f.listRepliesFn(ctx, suggestionID)
	}
	return nil, nil
}
func (f *fakeStore) RevokeAccessToken(context.Context, string, time.Time) error { return nil }
func (f *fakeStore) IsAccessTokenRevoked(context.Context, string) (bool, error) { return false, nil }
func (f *fakeStore) Ping(context.Context) error                                 { return nil }

// fakeSessions is an in-memory sessionStore.
type fakeSessions struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: make(map[string]string)}
}

func (f *fakeSessions) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[tokenHash] = userID
	return nil
}
func (f *fakeSessions) LookupRefreshSession(ctx context.Context, tokenHash string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.tokens[tokenHash]
	if !ok {
		return store.User{}, errors.New("token not found or expired")
	}
	return store.User{ID: userID}, nil
}
func (f *fakeSessions) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, tokenHash)
	return nil
}

func newTestService(fs *fakeStore) *Service {
	svc := &Service{
		cfg: config.Config{
			JWTSecret:  "test-secret",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 24 * time.Hour,
		},
		store:    fs,
		sessions: newFakeSessions(),
		authpw:   authpw.NewService(fs),
	}
	svc.export = export.NewService(&exportStore{service: svc})
	return svc
}

func strPtr(v string) *string { return &v }

func assertDomainError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if domainErr.Status != status || domainErr.Code != code {
		t.Fatalf("got %d %s, want %d %s", domainErr.Status, domainErr.Code, status, code)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestService(&fakeStore{})

	tests := []struct {
		name  string
		input SubmitInput
	}{
		{"empty title", SubmitInput{Title: "", Content: "The canteen needs more seating options."}},
		{"empty content", SubmitInput{Title: "Seating", Content: "   "}},
		{"title too long", SubmitInput{Title: strings.Repeat("x", 201), Content: "Valid content here."}},
		{"unknown category", SubmitInput{Title: "Seating", Content: "Valid content here.", CategoryID: "cat_missing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), Session{}, tt.input)
			assertDomainError(t, err, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
		})
	}
}

func TestSubmitTitleAtLimit(t *testing.T) {
	var inserted *store.Suggestion
	fs := &fakeStore{
		insertSuggestionFn: func(ctx context.Context, item store.Suggestion) error {
			inserted = &item
			return nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.Submit(context.Background(), Session{}, SubmitInput{
		Title:   strings.Repeat("x", 200),
		Content: "Exactly two hundred characters in the title should pass.",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if inserted == nil {
		t.Fatal("suggestion was not inserted")
	}
}

func TestSubmitRunsClassification(t *testing.T) {
	var inserted *store.Suggestion
	fs := &fakeStore{
		insertSuggestionFn: func(ctx context.Context, item store.Suggestion) error {
			inserted = &item
			return nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.Submit(context.Background(), Session{UserID: "usr_1"}, SubmitInput{
		Title:   "Library printer",
		Content: "Please fix the library printer, it has been broken for weeks.",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if inserted == nil {
		t.Fatal("suggestion was not inserted")
	}
	if inserted.Status != store.StatusUnderReview {
		t.Errorf("status = %q, want %q", inserted.Status, store.StatusUnderReview)
	}
	if inserted.Sentiment == nil {
		t.Error("sentiment was not populated")
	}
	if inserted.IsSpam {
		t.Error("normal suggestion flagged as spam")
	}
	if inserted.AutoCategory == nil || *inserted.AutoCategory != "Library & Study Spaces" {
		t.Errorf("autoCategory = %v, want Library & Study Spaces", inserted.AutoCategory)
	}
	if inserted.UserID == nil || *inserted.UserID != "usr_1" {
		t.Errorf("userID = %v, want usr_1", inserted.UserID)
	}
}

func TestSubmitSpamStillPersists(t *testing.T) {
	var inserted *store.Suggestion
	fs := &fakeStore{
		insertSuggestionFn: func(ctx context.Context, item store.Suggestion) error {
			inserted = &item
			return nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.Submit(context.Background(), Session{}, SubmitInput{
		Title:   "Great offer",
		Content: "Buy now and become a winner, click here for your prize.",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if inserted == nil {
		t.Fatal("suggestion was not inserted")
	}
	if !inserted.IsSpam {
		t.Error("spammy content not flagged")
	}
	if inserted.Status != store.StatusUnderReview {
		t.Errorf("spam should still enter the queue, status = %q", inserted.Status)
	}
}

func suggestionFixture() store.Suggestion {
	return store.Suggestion{
		ID:         "sug_1",
		UserID:     strPtr("usr_author"),
		CategoryID: strPtr("cat_library"),
		Title:      "Fix the printer",
		Content:    "The library printer is broken.",
		Status:     store.StatusUnderReview,
	}
}

func TestUpdateStatusPermissionDenied(t *testing.T) {
	fs := &fakeStore{
		getSuggestionFn: func(ctx context.Context, id string) (store.Suggestion, error) {
			return suggestionFixture(), nil
		},
	}
	svc := newTestService(fs)

	tests := []struct {
		name    string
		session Session
	}{
		{"unrelated user", Session{UserID: "usr_stranger"}},
		{"author has view only", Session{UserID: "usr_author"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateStatus(context.Background(), tt.session, "sug_1", store.StatusAccepted)
			assertDomainError(t, err, http.StatusForbidden, "FORBIDDEN")
		})
	}
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	fs := &fakeStore{
		getSuggestionFn: func(ctx context.Context, id string) (store.Suggestion, error) {
			return suggestionFixture(), nil
		},
		assignedCategoryIDsFn: func(ctx context.Context, userID string) ([]string, error) {
			return []string{"cat_library"}, nil
		},
	}
	svc := newTestService(fs)

	for _, bad := range []string{"approved", "UNDER_REVIEW", "", "deleted"} {
		_, err := svc.UpdateStatus(context.Background(), Session{UserID: "usr_admin", IsStaff: true}, "sug_1", bad)
		assertDomainError(t, err, http.StatusBadRequest, "INVALID_STATUS")
	}
}

func TestUpdateStatusIdempotent(t *testing.T) {
	updateCalls := 0
	fs := &fakeStore{
		getSuggestionFn: func(ctx context.Context, id string) (store.Suggestion, error) {
			return suggestionFixture(), nil
		},
		assignedCategoryIDsFn: func(ctx context.Context, userID string) ([]string, error) {
			return []string{"cat_library"}, nil
		},
		updateSuggestionStatusFn: func(ctx context.Context, id, status string) error {
			updateCalls++
			return nil
		},
	}
	svc := newTestService(fs)
	session := Session{UserID: "usr_admin", IsStaff: true}

	payload, err := svc.UpdateStatus(context.Background(), session, "sug_1", store.StatusUnderReview)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if payload["success"] != true || payload["status"] != store.StatusUnderReview {
		t.Errorf("payload = %v", payload)
	}
	if updateCalls != 0 {
		t.Errorf("idempotent update wrote %d times", updateCalls)
	}

	payload, err = svc.UpdateStatus(context.Background(), session, "sug_1", store.StatusAccepted)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if payload["status"] != store.StatusAccepted {
		t.Errorf("status = %v, want accepted", payload["status"])
	}
	if updateCalls != 1 {
		t.Errorf("expected one write, got %d", updateCalls)
	}
}

func TestUpdateStatusSuperuser(t *testing.T) {
	fs := &fakeStore{
		getSuggestionFn: func(ctx context.Context, id string) (store.Suggestion, error) {
			return suggestionFixture(), nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.UpdateStatus(context.Background(), Session{UserID: "usr_root", IsSuperuser: true}, "sug_1", store.StatusRejected)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if payload["status"] != store.StatusRejected {
		t.Errorf("status = %v", payload["status"])
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.UpdateStatus(context.Background(), Session{IsSuperuser: true}, "sug_missing", store.StatusAccepted)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestAttachReplyRequiresManage(t *testing.T) {
	fs := &fakeStore{
		getSuggestionFn: func(ctx context.Context, id string) (store.Suggestion, error) {
			return suggestionFixture(), nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.AttachReply(context.Background(), Session{UserID: "usr_author"}, "sug_1", "Thanks!")
	assertDomainError(t, err, http.StatusForbidden, "FORBIDDEN")
}

func TestAttachReplyAsCategoryAdmin(t *testing.T) {
	var inserted *store.Reply
	fs := &fakeStore{
		getSuggestionFn: func(ctx context.Context, id string) (store.Suggestion, error) {
			return suggestionFixture(), nil
		},
		assignedCategoryIDsFn: func(ctx context.Context, userID string) ([]string, error) {
			return []string{"cat_library"}, nil
		},
		insertReplyFn: func(ctx context.Context, reply store.Reply) error {
			inserted = &reply
			return nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.AttachReply(context.Background(), Session{UserID: "usr_admin", UserName: "Dana", IsStaff: true}, "sug_1", "We are on it.")
	if err != nil {
		t.Fatalf("AttachReply() error = %v", err)
	}
	if inserted == nil {
		t.Fatal("reply was not inserted")
	}
	if inserted.AdminID == nil || *inserted.AdminID != "usr_admin" {
		t.Errorf("adminID = %v", inserted.AdminID)
	}
	if payload["content"] != "We are on it." {
		t.Errorf("payload = %v", payload)
	}
}

func TestAttachReplyEmptyContent(t *testing.T) {
	fs := &fakeStore{
		getSuggestionFn: func(ctx context.Context, id string) (store.Suggestion, error) {
			return suggestionFixture(), nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.AttachReply(context.Background(), Session{UserID: "usr_root", IsSuperuser: true}, "sug_1", "  ")
	assertDomainError(t, err, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestListForScoping(t *testing.T) {
	all := []store.Suggestion{
		{ID: "sug_1", Status: store.StatusUnderReview},
		{ID: "sug_2", Status: store.StatusAccepted},
		{ID: "sug_3", Status: store.StatusRejected},
	}
	libraryOnly := all[:1]
	ownOnly := all[1:2]

	fs := &fakeStore{
		listSuggestionsFn: func(ctx context.Context) ([]store.Suggestion, error) {
			return all, nil
		},
		listByCategoriesFn: func(ctx context.Context, categoryIDs []string) ([]store.Suggestion, error) {
			if len(categoryIDs) != 1 || categoryIDs[0] != "cat_library" {
				t.Errorf("unexpected category filter %v", categoryIDs)
			}
			return libraryOnly, nil
		},
		listByAuthorFn: func(ctx context.Context, userID string) ([]store.Suggestion, error) {
			return ownOnly, nil
		},
		assignedCategoryIDsFn: func(ctx context.Context, userID string) ([]string, error) {
			if userID == "usr_admin" {
				return []string{"cat_library"}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(fs)

	tests := []struct {
		name    string
		session Session
		want    int
	}{
		{"superuser sees all", Session{UserID: "usr_root", IsSuperuser: true}, 3},
		{"category admin sees assigned", Session{UserID: "usr_admin", IsStaff: true}, 1},
		{"plain user sees own", Session{UserID: "usr_plain"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := svc.ListFor(context.Background(), tt.session)
			if err != nil {
				t.Fatalf("ListFor() error = %v", err)
			}
			items := payload["suggestions"].([]map[string]any)
			if len(items) != tt.want {
				t.Errorf("got %d suggestions, want %d", len(items), tt.want)
			}
		})
	}
}

// The store returns suggestions newest first; the listing must hand them
// through in that order rather than re-sorting or reversing.
func TestListForNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	newestFirst := []store.Suggestion{
		{ID: "sug_3", Status: store.StatusUnderReview, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "sug_2", Status: store.StatusAccepted, CreatedAt: base.Add(time.Hour)},
		{ID: "sug_1", Status: store.StatusRejected, CreatedAt: base},
	}
	fs := &fakeStore{
		listSuggestionsFn: func(ctx context.Context) ([]store.Suggestion, error) {
			return newestFirst, nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.ListFor(context.Background(), Session{UserID: "usr_root", IsSuperuser: true})
	if err != nil {
		t.Fatalf("ListFor() error = %v", err)
	}
	items := payload["suggestions"].([]map[string]any)
	if len(items) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(items))
	}
	for i, wantID := range []string{"sug_3", "sug_2", "sug_1"} {
		if items[i]["id"] != wantID {
			t.Errorf("items[%d] = %v, want %s", i, items[i]["id"], wantID)
		}
	}
	for i := 1; i < len(items); i++ {
		prev := items[i-1]["createdAt"].(string)
		curr := items[i]["createdAt"].(string)
		if prev < curr {
			t.Errorf("items[%d] (%s) is newer than items[%d] (%s)", i, curr, i-1, prev)
		}
	}
}

func TestSummaryCountsInvariant(t *testing.T) {
	visible := []store.Suggestion{
		{Status: store.StatusUnderReview},
		{Status: store.StatusUnderReview},
		{Status: store.StatusAccepted},
		{Status: store.StatusRejected},
	}
	summary := summaryCounts(visible)
	total := summary["total"].(int)
	sum := summary["underReview"].(int) + summary["accepted"].(int) + summary["rejected"].(int)
	if total != sum {
		t.Errorf("total %d != sum of statuses %d", total, sum)
	}
	if total != len(visible) {
		t.Errorf("total %d != len(visible) %d", total, len(visible))
	}
}

func TestCreateCategoryStaffOnly(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.CreateCategory(context.Background(), Session{UserID: "usr_plain"}, "New Ideas")
	assertDomainError(t, err, http.StatusForbidden, "FORBIDDEN")
}

func TestCreateCategoryRecordsCreator(t *testing.T) {
	var inserted *store.Category
	fs := &fakeStore{
		insertCategoryFn: func(ctx context.Context, category store.Category) error {
			inserted = &category
			return nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.CreateCategory(context.Background(), Session{UserID: "usr_admin", IsStaff: true}, "Sports & Recreation")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if inserted == nil {
		t.Fatal("category was not inserted")
	}
	if inserted.CreatedBy == nil || *inserted.CreatedBy != "usr_admin" {
		t.Errorf("createdBy = %v", inserted.CreatedBy)
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	fs := &fakeStore{
		listCategoriesFn: func(ctx context.Context) ([]store.Category, error) {
			return []store.Category{{ID: "cat_library", Name: "Library & Study Spaces"}}, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.CreateCategory(context.Background(), Session{UserID: "usr_admin", IsStaff: true}, "library & study spaces")
	assertDomainError(t, err, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestCreateAssignmentSuperuserOnly(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.CreateAssignment(context.Background(), Session{UserID: "usr_staff", IsStaff: true}, "usr_target", []string{"cat_library"})
	assertDomainError(t, err, http.StatusForbidden, "FORBIDDEN")
}

func TestCreateAssignmentSetsStaffFlag(t *testing.T) {
	staffSet := false
	replaced := false
	fs := &fakeStore{
		getUserByIDFn: func(ctx context.Context, userID string) (store.User, error) {
			return store.User{ID: userID, DisplayName: "Jordan"}, nil
		},
		getCategoryFn: func(ctx context.Context, categoryID string) (store.Category, error) {
			return store.Category{ID: categoryID}, nil
		},
		replaceAssignmentFn: func(ctx context.Context, userID string, categoryIDs []string) error {
			replaced = true
			return nil
		},
		setUserStaffFn: func(ctx context.Context, userID string, staff bool) error {
			if !replaced {
				t.Error("is_staff set before the assignment was written")
			}
			if userID != "usr_target" || !staff {
				t.Errorf("SetUserStaff(%q, %v)", userID, staff)
			}
			staffSet = true
			return nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.CreateAssignment(context.Background(), Session{UserID: "usr_root", IsSuperuser: true}, "usr_target", []string{"cat_library", "cat_canteen"})
	if err != nil {
		t.Fatalf("CreateAssignment() error = %v", err)
	}
	if !staffSet {
		t.Error("is_staff was never set")
	}
	if payload["isStaff"] != true {
		t.Errorf("payload = %v", payload)
	}
}

func TestCreateAssignmentUnknownCategory(t *testing.T) {
	fs := &fakeStore{
		getUserByIDFn: func(ctx context.Context, userID string) (store.User, error) {
			return store.User{ID: userID}, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.CreateAssignment(context.Background(), Session{IsSuperuser: true}, "usr_target", []string{"cat_missing"})
	assertDomainError(t, err, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestAdminPanelPendingOnly(t *testing.T) {
	fs := &fakeStore{
		listByCategoriesFn: func(ctx context.Context, categoryIDs []string) ([]store.Suggestion, error) {
			return []store.Suggestion{
				{ID: "sug_1", Status: store.StatusUnderReview},
				{ID: "sug_2", Status: store.StatusAccepted},
			}, nil
		},
		assignedCategoryIDsFn: func(ctx context.Context, userID string) ([]string, error) {
			return []string{"cat_library"}, nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.AdminPanel(context.Background(), Session{UserID: "usr_admin", IsStaff: true})
	if err != nil {
		t.Fatalf("AdminPanel() error = %v", err)
	}
	pending := payload["pending"].([]map[string]any)
	if len(pending) != 1 || pending[0]["id"] != "sug_1" {
		t.Errorf("pending = %v", pending)
	}
}

func TestAdminPanelStaffOnly(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.AdminPanel(context.Background(), Session{UserID: "usr_plain"})
	assertDomainError(t, err, http.StatusForbidden, "FORBIDDEN")
}

func TestGetSuggestionDetailViewGate(t *testing.T) {
	fs := &fakeStore{
		getSuggestionFn: func(ctx context.Context, id string) (store.Suggestion, error) {
			return suggestionFixture(), nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.GetSuggestionDetail(context.Background(), Session{UserID: "usr_stranger"}, "sug_1")
	assertDomainError(t, err, http.StatusForbidden, "FORBIDDEN")

	payload, err := svc.GetSuggestionDetail(context.Background(), Session{UserID: "usr_author"}, "sug_1")
	if err != nil {
		t.Fatalf("author view failed: %v", err)
	}
	if payload["canManage"] != false {
		t.Error("author should not be able to manage")
	}
}

func TestBootstrapSeedsDefaultCategories(t *testing.T) {
	seen := make(map[string]string)
	fs := &fakeStore{
		getOrCreateCategoryFn: func(ctx context.Context, id, name string) (store.Category, bool, error) {
			seen[id] = name
			return store.Category{ID: id, Name: name}, true, nil
		},
	}
	svc := newTestService(fs)

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if len(seen) != 10 {
		t.Errorf("seeded %d categories, want 10", len(seen))
	}
	if seen["cat_canteen"] != "Canteen & Food Services" {
		t.Errorf("canteen seed = %q", seen["cat_canteen"])
	}
	// The classifier's food label is not the seeded category name.
	for _, name := range seen {
		if name == "Cafeteria & Food" {
			t.Error("classifier label should not be a seeded category")
		}
	}
}

func TestRefreshRotatesAndRereadsUser(t *testing.T) {
	fs := &fakeStore{
		getUserByIDFn: func(ctx context.Context, userID string) (store.User, error) {
			return store.User{ID: userID, DisplayName: "Jordan", IsStaff: true}, nil
		},
	}
	svc := newTestService(fs)

	session, err := svc.issueSession(context.Background(), store.User{ID: "usr_1", DisplayName: "Jordan"})
	if err != nil {
		t.Fatalf("issueSession() error = %v", err)
	}

	rotated, err := svc.Refresh(context.Background(), session.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if !rotated.IsStaff {
		t.Error("refresh did not pick up new staff flag from the user row")
	}
	if rotated.RefreshToken == session.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	if _, err := svc.Refresh(context.Background(), session.RefreshToken); err == nil {
		t.Error("old refresh token should be revoked after rotation")
	}
}
