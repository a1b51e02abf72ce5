package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"suggestbox/api/internal/access"
	"suggestbox/api/internal/auth"
	"suggestbox/api/internal/authpw"
	"suggestbox/api/internal/classify"
	"suggestbox/api/internal/config"
	"suggestbox/api/internal/email"
	"suggestbox/api/internal/export"
	"suggestbox/api/internal/search"
	"suggestbox/api/internal/store"
	"suggestbox/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	IsSuperuser  bool
	IsStaff      bool
	JTI          string
	ExpiresAt    time.Time
}

type SubmitInput struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	CategoryID  string `json:"categoryId"`
	IsAnonymous bool   `json:"isAnonymous"`
}

var allowedStatuses = map[string]struct{}{
	store.StatusUnderReview: {},
	store.StatusAccepted:    {},
	store.StatusRejected:    {},
}

// defaultCategories are seeded on first boot. The auto-category label
// "Cafeteria & Food" intentionally does not match "Canteen & Food Services";
// the label is advisory text, not a category reference.
var defaultCategories = []struct {
	ID   string
	Name string
}{
	{"cat_canteen", "Canteen & Food Services"},
	{"cat_library", "Library & Study Spaces"},
	{"cat_classroom", "Classroom & Academic"},
	{"cat_transport", "Transportation & Parking"},
	{"cat_technology", "Technology & IT Support"},
	{"cat_facilities", "Facilities & Maintenance"},
	{"cat_student_life", "Student Life & Activities"},
	{"cat_admin", "Administrative Services"},
	{"cat_health", "Health & Wellness"},
	{"cat_other", "Other"},
}

type dataStore interface {
	GetUserByID(context.Context, string) (store.User, error)
	GetUserByEmail(context.Context, string) (store.User, error)
	SetUserStaff(context.Context, string, bool) error
	InsertCategory(context.Context, store.Category) error
	GetOrCreateCategory(context.Context, string, string) (store.Category, bool, error)
	GetCategory(context.Context, string) (store.Category, error)
	ListCategories(context.Context) ([]store.Category, error)
	ReplaceAssignment(context.Context, string, []string) error
	AssignedCategoryIDs(context.Context, string) ([]string, error)
	InsertSuggestion(context.Context, store.Suggestion) error
	GetSuggestion(context.Context, string) (store.Suggestion, error)
	ListSuggestions(context.Context) ([]store.Suggestion, error)
	ListSuggestionsByCategories(context.Context, []string) ([]store.Suggestion, error)
	ListSuggestionsByAuthor(context.Context, string) ([]store.Suggestion, error)
	UpdateSuggestionStatus(context.Context, string, string) error
	InsertReply(context.Context, store.Reply) error
	ListReplies(context.Context, string) ([]store.Reply, error)
	RevokeAccessToken(context.Context, string, time.Time) error
	IsAccessTokenRevoked(context.Context, string) (bool, error)
	Ping(ctx context.Context) error
}

// sessionStore holds refresh tokens. Redis when configured, Postgres
// otherwise; both carry only the token-to-user binding, never role flags.
type sessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (store.User, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
}

type Service struct {
	cfg      config.Config
	store    dataStore
	sessions sessionStore
	authpw   *authpw.Service
	search   *search.Service
	export   *export.Service
	email    *email.Service
}

func New(cfg config.Config, dataStore *store.PostgresStore, sessions sessionStore, authSvc *authpw.Service, searchSvc *search.Service, emailSvc *email.Service) *Service {
	s := &Service{
		cfg:      cfg,
		store:    dataStore,
		sessions: sessions,
		authpw:   authSvc,
		search:   searchSvc,
		email:    emailSvc,
	}
	s.export = export.NewService(&exportStore{service: s})
	return s
}

// Bootstrap seeds the default categories. Safe to run on every start.
func (s *Service) Bootstrap(ctx context.Context) error {
	for _, seed := range defaultCategories {
		if _, _, err := s.store.GetOrCreateCategory(ctx, seed.ID, seed.Name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) SMTPConfigured() bool {
	return s.email != nil && s.email.IsConfigured()
}

// Auth

func (s *Service) Register(ctx context.Context, emailAddr, password, displayName string) (store.User, error) {
	return s.authpw.Register(ctx, authpw.RegisterRequest{
		Email:       emailAddr,
		Password:    password,
		DisplayName: displayName,
	})
}

func (s *Service) Login(ctx context.Context, emailAddr, password string) (Session, error) {
	user, err := s.authpw.Authenticate(ctx, emailAddr, password)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	bound, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	// Re-read the user row so rotated sessions pick up current role flags.
	user, err := s.store.GetUserByID(ctx, bound.ID)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), user.ID, user.DisplayName, jti, expiresAt)
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), user.ID, refreshExpires); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.DisplayName,
		IsSuperuser:  user.IsSuperuser,
		IsStaff:      user.IsStaff,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, err
	}
	revoked, err := s.store.IsAccessTokenRevoked(ctx, claims.ID)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, auth.ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:       token,
		UserID:      user.ID,
		UserName:    user.DisplayName,
		IsSuperuser: user.IsSuperuser,
		IsStaff:     user.IsStaff,
		JTI:         claims.ID,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

func (s *Service) Logout(ctx context.Context, session Session, refreshToken string) error {
	if session.JTI != "" {
		_ = s.store.RevokeAccessToken(ctx, session.JTI, session.ExpiresAt)
	}
	if refreshToken != "" {
		_ = s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) (string, error) {
	token, err := s.authpw.RequestPasswordReset(ctx, emailAddr)
	if err != nil || token == "" {
		return "", err
	}
	if s.SMTPConfigured() {
		displayName := ""
		if user, lookupErr := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr))); lookupErr == nil {
			displayName = user.DisplayName
		}
		_ = s.email.SendPasswordReset(emailAddr, displayName, token)
	}
	return token, nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.authpw.ResetPassword(ctx, token, newPassword)
}

// actorFor re-reads the actor's current assignments on every call so
// permission changes take effect on the next request.
func (s *Service) actorFor(ctx context.Context, session Session) (access.Actor, error) {
	actor := access.Actor{
		ID:          session.UserID,
		IsSuperuser: session.IsSuperuser,
	}
	if session.UserID == "" {
		return actor, nil
	}
	assigned, err := s.store.AssignedCategoryIDs(ctx, session.UserID)
	if err != nil {
		return access.Actor{}, err
	}
	actor.AssignedCategoryIDs = assigned
	return actor, nil
}

// Categories

func (s *Service) ListCategories(ctx context.Context) (map[string]any, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(categories))
	for _, category := range categories {
		items = append(items, categoryPayload(category))
	}
	return map[string]any{"categories": items}, nil
}

func (s *Service) CreateCategory(ctx context.Context, session Session, name string) (map[string]any, error) {
	if !session.IsStaff && !session.IsSuperuser {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "only staff can create categories", nil)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required", nil)
	}

	existing, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, category := range existing {
		if strings.EqualFold(category.Name, name) {
			return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "category name already exists", nil)
		}
	}

	creator := session.UserID
	category := store.Category{
		ID:        util.NewID("cat"),
		Name:      name,
		CreatedBy: &creator,
	}
	if err := s.store.InsertCategory(ctx, category); err != nil {
		return nil, err
	}
	return categoryPayload(category), nil
}

// Assignments

// CreateAssignment replaces a user's category-admin assignment. Granting an
// assignment sets is_staff as its own step so the side effect is visible in
// the store regardless of how the relation rows are written.
func (s *Service) CreateAssignment(ctx context.Context, session Session, userID string, categoryIDs []string) (map[string]any, error) {
	if !session.IsSuperuser {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "only superusers can assign category admins", nil)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "userId is required", nil)
	}
	if len(categoryIDs) == 0 {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "categoryIds must not be empty", nil)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, categoryID := range categoryIDs {
		if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
			return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown category: "+categoryID, nil)
		}
	}

	if err := s.store.ReplaceAssignment(ctx, userID, categoryIDs); err != nil {
		return nil, err
	}
	if err := s.store.SetUserStaff(ctx, userID, true); err != nil {
		return nil, err
	}

	return map[string]any{
		"userId":      user.ID,
		"userName":    user.DisplayName,
		"categoryIds": categoryIDs,
		"isStaff":     true,
	}, nil
}

// Suggestions

func (s *Service) Submit(ctx context.Context, session Session, input SubmitInput) (map[string]any, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
	}
	if len([]rune(title)) > 200 {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title must be at most 200 characters", nil)
	}
	if content == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "content is required", nil)
	}

	var categoryID *string
	if trimmed := strings.TrimSpace(input.CategoryID); trimmed != "" {
		if _, err := s.store.GetCategory(ctx, trimmed); err != nil {
			return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown category", nil)
		}
		categoryID = &trimmed
	}

	var userID *string
	if session.UserID != "" {
		id := session.UserID
		userID = &id
	}

	// Classification is advisory and can never fail the submission.
	result := classify.Classify(content)
	sentiment := result.Sentiment

	suggestion := store.Suggestion{
		ID:           util.NewID("sug"),
		UserID:       userID,
		IsAnonymous:  input.IsAnonymous,
		CategoryID:   categoryID,
		Title:        title,
		Content:      content,
		Status:       store.StatusUnderReview,
		Sentiment:    &sentiment,
		IsSpam:       result.IsSpam,
		AutoCategory: result.AutoCategory,
	}
	if err := s.store.InsertSuggestion(ctx, suggestion); err != nil {
		return nil, err
	}

	stored, err := s.store.GetSuggestion(ctx, suggestion.ID)
	if err != nil {
		stored = suggestion
	}
	if s.search != nil {
		s.search.IndexSuggestion(searchRecordFor(stored))
	}
	return suggestionPayload(stored), nil
}

func (s *Service) GetSuggestionDetail(ctx context.Context, session Session, suggestionID string) (map[string]any, error) {
	suggestion, err := s.store.GetSuggestion(ctx, suggestionID)
	if err != nil {
		return nil, err
	}
	actor, err := s.actorFor(ctx, session)
	if err != nil {
		return nil, err
	}
	decision := access.Resolve(actor, access.Suggestion{UserID: suggestion.UserID, CategoryID: suggestion.CategoryID})
	if !decision.CanView {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "you cannot view this suggestion", nil)
	}

	replies, err := s.store.ListReplies(ctx, suggestionID)
	if err != nil {
		return nil, err
	}
	replyItems := make([]map[string]any, 0, len(replies))
	for _, reply := range replies {
		replyItems = append(replyItems, replyPayload(reply))
	}

	payload := suggestionPayload(suggestion)
	payload["replies"] = replyItems
	payload["canManage"] = decision.CanManage
	return payload, nil
}

func (s *Service) AttachReply(ctx context.Context, session Session, suggestionID, content string) (map[string]any, error) {
	suggestion, err := s.store.GetSuggestion(ctx, suggestionID)
	if err != nil {
		return nil, err
	}
	actor, err := s.actorFor(ctx, session)
	if err != nil {
		return nil, err
	}
	decision := access.Resolve(actor, access.Suggestion{UserID: suggestion.UserID, CategoryID: suggestion.CategoryID})
	if !decision.CanManage {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "you cannot reply to this suggestion", nil)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "content is required", nil)
	}

	adminID := session.UserID
	reply := store.Reply{
		ID:           util.NewID("rep"),
		SuggestionID: suggestionID,
		AdminID:      &adminID,
		AdminName:    session.UserName,
		Content:      content,
	}
	if err := s.store.InsertReply(ctx, reply); err != nil {
		return nil, err
	}
	return replyPayload(reply), nil
}

// UpdateStatus applies a status transition. The permission check runs before
// the status value check so a denied caller learns nothing about valid values.
func (s *Service) UpdateStatus(ctx context.Context, session Session, suggestionID, newStatus string) (map[string]any, error) {
	suggestion, err := s.store.GetSuggestion(ctx, suggestionID)
	if err != nil {
		return nil, err
	}
	actor, err := s.actorFor(ctx, session)
	if err != nil {
		return nil, err
	}
	decision := access.Resolve(actor, access.Suggestion{UserID: suggestion.UserID, CategoryID: suggestion.CategoryID})
	if !decision.CanManage {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "you cannot manage this suggestion", nil)
	}

	newStatus = strings.TrimSpace(newStatus)
	if _, ok := allowedStatuses[newStatus]; !ok {
		return nil, domainError(http.StatusBadRequest, "INVALID_STATUS", "status must be one of under_review, accepted, rejected", nil)
	}

	// Idempotent: setting the current status succeeds without a write.
	if suggestion.Status != newStatus {
		if err := s.store.UpdateSuggestionStatus(ctx, suggestionID, newStatus); err != nil {
			return nil, err
		}
		suggestion.Status = newStatus
		if s.search != nil {
			s.search.IndexSuggestion(searchRecordFor(suggestion))
		}
	}

	return map[string]any{
		"success": true,
		"status":  newStatus,
	}, nil
}

// ListFor returns the suggestions visible to the session's actor, newest
// first, plus summary counts derived from the same visible set.
func (s *Service) ListFor(ctx context.Context, session Session) (map[string]any, error) {
	actor, err := s.actorFor(ctx, session)
	if err != nil {
		return nil, err
	}

	visible, err := s.visibleSuggestions(ctx, actor)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, 0, len(visible))
	for _, suggestion := range visible {
		items = append(items, suggestionPayload(suggestion))
	}

	return map[string]any{
		"suggestions": items,
		"summary":     summaryCounts(visible),
	}, nil
}

func (s *Service) visibleSuggestions(ctx context.Context, actor access.Actor) ([]store.Suggestion, error) {
	switch {
	case actor.IsSuperuser:
		return s.store.ListSuggestions(ctx)
	case len(actor.AssignedCategoryIDs) > 0:
		return s.store.ListSuggestionsByCategories(ctx, actor.AssignedCategoryIDs)
	case actor.ID != "":
		return s.store.ListSuggestionsByAuthor(ctx, actor.ID)
	default:
		return nil, nil
	}
}

// summaryCounts tallies from the visible slice itself, so total always equals
// the sum of the per-status counts.
func summaryCounts(visible []store.Suggestion) map[string]any {
	underReview, accepted, rejected := 0, 0, 0
	for _, suggestion := range visible {
		switch suggestion.Status {
		case store.StatusUnderReview:
			underReview++
		case store.StatusAccepted:
			accepted++
		case store.StatusRejected:
			rejected++
		}
	}
	return map[string]any{
		"total":       len(visible),
		"underReview": underReview,
		"accepted":    accepted,
		"rejected":    rejected,
	}
}

// AdminPanel returns the staff triage view: all categories plus the pending
// suggestions from the actor's visible set.
func (s *Service) AdminPanel(ctx context.Context, session Session) (map[string]any, error) {
	if !session.IsStaff && !session.IsSuperuser {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "staff only", nil)
	}

	actor, err := s.actorFor(ctx, session)
	if err != nil {
		return nil, err
	}
	visible, err := s.visibleSuggestions(ctx, actor)
	if err != nil {
		return nil, err
	}
	pending := make([]map[string]any, 0)
	for _, suggestion := range visible {
		if suggestion.Status == store.StatusUnderReview {
			pending = append(pending, suggestionPayload(suggestion))
		}
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	categoryItems := make([]map[string]any, 0, len(categories))
	for _, category := range categories {
		categoryItems = append(categoryItems, categoryPayload(category))
	}

	return map[string]any{
		"categories": categoryItems,
		"pending":    pending,
	}, nil
}

// Search runs a full-text query and filters each hit through the resolver so
// callers only see what ListFor would show them.
func (s *Service) Search(ctx context.Context, session Session, text string, limit, offset int) (map[string]any, error) {
	actor, err := s.actorFor(ctx, session)
	if err != nil {
		return nil, err
	}

	if s.search == nil {
		return map[string]any{"results": []search.Result{}, "total": 0, "query": text}, nil
	}
	response := s.search.Search(search.Query{Text: text, Limit: limit, Offset: offset})

	results := make([]search.Result, 0, len(response.Results))
	for _, hit := range response.Results {
		var userID, categoryID *string
		if hit.UserID != "" {
			id := hit.UserID
			userID = &id
		}
		if hit.CategoryID != "" {
			id := hit.CategoryID
			categoryID = &id
		}
		decision := access.Resolve(actor, access.Suggestion{UserID: userID, CategoryID: categoryID})
		if !decision.CanView {
			continue
		}
		results = append(results, hit)
	}

	return map[string]any{
		"results": results,
		"total":   len(results),
		"query":   response.Query,
	}, nil
}

// Export renders a suggestion report, gated by can_view.
func (s *Service) Export(ctx context.Context, session Session, suggestionID string, format export.Format, includeReplies bool) (*export.Result, error) {
	suggestion, err := s.store.GetSuggestion(ctx, suggestionID)
	if err != nil {
		return nil, err
	}
	actor, err := s.actorFor(ctx, session)
	if err != nil {
		return nil, err
	}
	decision := access.Resolve(actor, access.Suggestion{UserID: suggestion.UserID, CategoryID: suggestion.CategoryID})
	if !decision.CanView {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "you cannot view this suggestion", nil)
	}

	return s.export.Export(ctx, export.Request{
		SuggestionID:   suggestionID,
		Format:         format,
		IncludeReplies: includeReplies,
	})
}

// exportStore adapts the service's data store to the export package, filling
// in display names the report needs.
type exportStore struct {
	service *Service
}

func (e *exportStore) GetExportSuggestion(ctx context.Context, id string) (export.Suggestion, error) {
	suggestion, err := e.service.store.GetSuggestion(ctx, id)
	if err != nil {
		return export.Suggestion{}, err
	}

	author := "Anonymous"
	if !suggestion.IsAnonymous && suggestion.UserID != nil {
		if user, err := e.service.store.GetUserByID(ctx, *suggestion.UserID); err == nil {
			author = user.DisplayName
		}
	}

	categoryName := ""
	if suggestion.CategoryID != nil {
		if category, err := e.service.store.GetCategory(ctx, *suggestion.CategoryID); err == nil {
			categoryName = category.Name
		}
	}

	out := export.Suggestion{
		ID:           suggestion.ID,
		Title:        suggestion.Title,
		Content:      suggestion.Content,
		Author:       author,
		CategoryName: categoryName,
		Status:       suggestion.Status,
		Sentiment:    suggestion.Sentiment,
		IsSpam:       suggestion.IsSpam,
		CreatedAt:    suggestion.CreatedAt,
	}
	if suggestion.AutoCategory != nil {
		out.AutoCategory = *suggestion.AutoCategory
	}
	return out, nil
}

func (e *exportStore) ListExportReplies(ctx context.Context, suggestionID string) ([]export.Reply, error) {
	replies, err := e.service.store.ListReplies(ctx, suggestionID)
	if err != nil {
		return nil, err
	}
	out := make([]export.Reply, 0, len(replies))
	for _, reply := range replies {
		out = append(out, export.Reply{
			Author:    reply.AdminName,
			Content:   reply.Content,
			CreatedAt: reply.CreatedAt,
		})
	}
	return out, nil
}

// Payload helpers

func suggestionPayload(suggestion store.Suggestion) map[string]any {
	payload := map[string]any{
		"id":          suggestion.ID,
		"title":       suggestion.Title,
		"content":     suggestion.Content,
		"status":      suggestion.Status,
		"isAnonymous": suggestion.IsAnonymous,
		"isSpam":      suggestion.IsSpam,
		"createdAt":   suggestion.CreatedAt.Format(time.RFC3339),
		"updatedAt":   suggestion.UpdatedAt.Format(time.RFC3339),
	}
	payload["categoryId"] = nilIfEmptyPtr(suggestion.CategoryID)
	payload["userId"] = nilIfEmptyPtr(suggestion.UserID)
	payload["autoCategory"] = nilIfEmptyPtr(suggestion.AutoCategory)
	if suggestion.Sentiment != nil {
		payload["sentiment"] = *suggestion.Sentiment
	} else {
		payload["sentiment"] = nil
	}
	return payload
}

func replyPayload(reply store.Reply) map[string]any {
	return map[string]any{
		"id":           reply.ID,
		"suggestionId": reply.SuggestionID,
		"adminId":      nilIfEmptyPtr(reply.AdminID),
		"adminName":    reply.AdminName,
		"content":      reply.Content,
		"createdAt":    reply.CreatedAt.Format(time.RFC3339),
	}
}

func categoryPayload(category store.Category) map[string]any {
	payload := map[string]any{
		"id":        category.ID,
		"name":      category.Name,
		"createdAt": category.CreatedAt.Format(time.RFC3339),
	}
	payload["createdBy"] = nilIfEmptyPtr(category.CreatedBy)
	return payload
}

func searchRecordFor(suggestion store.Suggestion) search.SuggestionRecord {
	record := search.SuggestionRecord{
		ID:      suggestion.ID,
		Title:   suggestion.Title,
		Content: suggestion.Content,
		Status:  suggestion.Status,
	}
	if suggestion.AutoCategory != nil {
		record.AutoCategory = *suggestion.AutoCategory
	}
	if suggestion.CategoryID != nil {
		record.CategoryID = *suggestion.CategoryID
	}
	if suggestion.UserID != nil {
		record.UserID = *suggestion.UserID
	}
	return record
}

func nilIfEmptyPtr(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}
