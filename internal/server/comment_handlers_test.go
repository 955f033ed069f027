package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inmoplaza/internal/config"
	"inmoplaza/internal/models"
	"inmoplaza/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, c *models.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByListing(ctx context.Context, listingID uint) ([]*models.Comment, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) DeleteByID(ctx context.Context, id, listingID uint) error {
	args := m.Called(ctx, id, listingID)
	return args.Error(0)
}

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newCommentTestServer(comments *MockCommentRepository, listings *MockListingRepository, users *MockUserRepository) *Server {
	return &Server{
		config:         &config.Config{},
		commentService: service.NewCommentService(comments, listings, users, nil),
	}
}

func TestCreateComment(t *testing.T) {
	post := func(s *Server, userID uint, payload map[string]interface{}) *http.Response {
		app := fiber.New()
		asUser(app, userID).Post("/listings/:id/comments", s.CreateComment)

		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/listings/1/comments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	rentalListing := func() *MockListingRepository {
		listings := new(MockListingRepository)
		listings.On("GetByID", mock.Anything, uint(1)).
			Return(&models.Listing{ID: 1, OwnerID: 7, Kind: models.KindRental}, nil)
		return listings
	}

	t.Run("rated comment", func(t *testing.T) {
		comments := new(MockCommentRepository)
		comments.On("Create", mock.Anything, mock.Anything).Return(nil)
		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, uint(2)).
			Return(&models.User{ID: 2, Username: "lucia"}, nil)

		resp := post(newCommentTestServer(comments, rentalListing(), users), 2, map[string]interface{}{
			"body":   "Muy buen piso, repetiremos.",
			"rating": 5,
		})
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var created models.Comment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		assert.Equal(t, "lucia", created.AuthorName)
		require.NotNil(t, created.Rating)
		assert.Equal(t, 5, *created.Rating)
	})

	t.Run("comment without rating", func(t *testing.T) {
		comments := new(MockCommentRepository)
		comments.On("Create", mock.Anything, mock.Anything).Return(nil)
		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, uint(2)).
			Return(&models.User{ID: 2, Username: "lucia"}, nil)

		resp := post(newCommentTestServer(comments, rentalListing(), users), 2, map[string]interface{}{
			"body": "Zona tranquila y bien comunicada.",
		})
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var created models.Comment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		assert.Nil(t, created.Rating)
	})

	t.Run("too short body", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, uint(2)).
			Return(&models.User{ID: 2, Username: "lucia"}, nil)

		resp := post(newCommentTestServer(new(MockCommentRepository), rentalListing(), users), 2, map[string]interface{}{
			"body": "corto",
		})
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("blocked author", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, uint(2)).
			Return(&models.User{ID: 2, Username: "lucia", Blocked: true}, nil)

		resp := post(newCommentTestServer(new(MockCommentRepository), rentalListing(), users), 2, map[string]interface{}{
			"body": "un comentario válido",
		})
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestDeleteComment(t *testing.T) {
	del := func(s *Server, userID uint) *http.Response {
		app := fiber.New()
		asUser(app, userID).Delete("/listings/:id/comments/:commentId", s.DeleteComment)

		req := httptest.NewRequest(http.MethodDelete, "/listings/1/comments/10", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("author deletes own comment", func(t *testing.T) {
		comments := new(MockCommentRepository)
		comments.On("GetByID", mock.Anything, uint(10)).
			Return(&models.Comment{ID: 10, ListingID: 1, AuthorID: 2}, nil)
		comments.On("DeleteByID", mock.Anything, uint(10), uint(1)).Return(nil)

		resp := del(newCommentTestServer(comments, new(MockListingRepository), new(MockUserRepository)), 2)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		comments.AssertExpectations(t)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		comments := new(MockCommentRepository)
		comments.On("GetByID", mock.Anything, uint(10)).
			Return(&models.Comment{ID: 10, ListingID: 1, AuthorID: 2}, nil)
		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, uint(3)).
			Return(&models.User{ID: 3, Role: models.RoleUser}, nil)

		resp := del(newCommentTestServer(comments, new(MockListingRepository), users), 3)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestGetRating(t *testing.T) {
	app := fiber.New()

	rate := func(v int) *models.Comment {
		return &models.Comment{ListingID: 1, Rating: &v}
	}
	comments := new(MockCommentRepository)
	comments.On("ListByListing", mock.Anything, uint(1)).Return([]*models.Comment{
		rate(5), rate(5), rate(4), {ListingID: 1}, rate(3),
	}, nil)
	comments.On("ListByListing", mock.Anything, uint(2)).Return([]*models.Comment{}, nil)

	s := newCommentTestServer(comments, new(MockListingRepository), new(MockUserRepository))
	app.Get("/listings/:id/rating", s.GetRating)

	t.Run("rated listing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/listings/1/rating", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var agg models.RatingAggregate
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&agg))
		assert.Equal(t, 4, agg.Count)
		require.NotNil(t, agg.Mean)
		assert.Equal(t, 4.3, *agg.Mean)
		assert.Equal(t, 4, agg.Stars)
	})

	t.Run("unrated listing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/listings/2/rating", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var agg models.RatingAggregate
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&agg))
		assert.Equal(t, 0, agg.Count)
		assert.Nil(t, agg.Mean)
	})
}
