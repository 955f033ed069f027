package service

import (
	"context"
	"strings"
	"testing"

	"inmoplaza/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	listByListingFn func(context.Context, uint) ([]*models.Comment, error)
	deleteByIDFn    func(context.Context, uint, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByListing(ctx context.Context, listingID uint) ([]*models.Comment, error) {
	return s.listByListingFn(ctx, listingID)
}
func (s *commentRepoStub) DeleteByID(ctx context.Context, id, listingID uint) error {
	return s.deleteByIDFn(ctx, id, listingID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, _ uint) (*models.Comment, error) {
			return &models.Comment{}, nil
		},
		listByListingFn: func(_ context.Context, _ uint) ([]*models.Comment, error) {
			return nil, nil
		},
		deleteByIDFn: func(_ context.Context, _, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn func(context.Context, uint) (*models.User, error)
}

func (s *userRepoStub) Create(_ context.Context, _ *models.User) error { return nil }
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func usersByID(users map[uint]*models.User) *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			if u, ok := users[id]; ok {
				return u, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
}

func anyListingRepo() *listingRepoStub {
	return &listingRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Listing, error) {
			return &models.Listing{ID: id, OwnerID: 1, Kind: models.KindRental}, nil
		},
	}
}

func intPtr(v int) *int { return &v }

func newCommentService(comments *commentRepoStub, users *userRepoStub) *CommentService {
	// nil cache: aggregates are recomputed every call, which is what the
	// unit tests want anyway.
	return NewCommentService(comments, anyListingRepo(), users, nil)
}

func TestCommentService_AddComment_Success(t *testing.T) {
	t.Parallel()

	comments := noopCommentRepo()
	var created *models.Comment
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 3
		created = c
		return nil
	}
	users := usersByID(map[uint]*models.User{
		2: {ID: 2, Username: "lucia"},
	})
	svc := newCommentService(comments, users)

	comment, err := svc.AddComment(context.Background(), AddCommentInput{
		ListingID: 1,
		AuthorID:  2,
		Body:      "  Muy buen piso, volveríamos sin duda.  ",
		Rating:    intPtr(5),
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(3), comment.ID)
	assert.Equal(t, "Muy buen piso, volveríamos sin duda.", comment.Body)
	assert.Equal(t, "lucia", comment.AuthorName)
	require.NotNil(t, comment.Rating)
	assert.Equal(t, 5, *comment.Rating)
}

func TestCommentService_AddComment_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		rating *int
		code   string
	}{
		{"nine runes too short", "123456789", nil, models.CodeInvalidInput},
		{"whitespace does not count", "   1234567   ", nil, models.CodeInvalidInput},
		{"ten runes accepted", "1234567890", nil, ""},
		{"multibyte runes counted as one", strings.Repeat("ñ", 10), nil, ""},
		{"thousand runes accepted", strings.Repeat("a", 1000), nil, ""},
		{"over a thousand rejected", strings.Repeat("a", 1001), nil, models.CodeInvalidInput},
		{"rating zero rejected", "un comentario válido", intPtr(0), models.CodeInvalidInput},
		{"rating six rejected", "un comentario válido", intPtr(6), models.CodeInvalidInput},
		{"rating one accepted", "un comentario válido", intPtr(1), ""},
		{"rating five accepted", "un comentario válido", intPtr(5), ""},
		{"no rating accepted", "un comentario válido", nil, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			users := usersByID(map[uint]*models.User{2: {ID: 2, Username: "lucia"}})
			svc := newCommentService(noopCommentRepo(), users)
			_, err := svc.AddComment(context.Background(), AddCommentInput{
				ListingID: 1, AuthorID: 2, Body: tt.body, Rating: tt.rating,
			})
			if tt.code == "" {
				assert.NoError(t, err)
			} else {
				assertAppErrorCode(t, err, tt.code)
			}
		})
	}
}

func TestCommentService_AddComment_AuthorGates(t *testing.T) {
	t.Parallel()

	t.Run("unknown listing", func(t *testing.T) {
		t.Parallel()
		listings := &listingRepoStub{
			getByIDFn: func(_ context.Context, _ uint) (*models.Listing, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		users := usersByID(map[uint]*models.User{2: {ID: 2}})
		svc := NewCommentService(noopCommentRepo(), listings, users, nil)
		_, err := svc.AddComment(context.Background(), AddCommentInput{
			ListingID: 9, AuthorID: 2, Body: "un comentario válido",
		})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("unknown author", func(t *testing.T) {
		t.Parallel()
		svc := newCommentService(noopCommentRepo(), usersByID(nil))
		_, err := svc.AddComment(context.Background(), AddCommentInput{
			ListingID: 1, AuthorID: 2, Body: "un comentario válido",
		})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("blocked author", func(t *testing.T) {
		t.Parallel()
		users := usersByID(map[uint]*models.User{
			2: {ID: 2, Username: "lucia", Blocked: true},
		})
		svc := newCommentService(noopCommentRepo(), users)
		_, err := svc.AddComment(context.Background(), AddCommentInput{
			ListingID: 1, AuthorID: 2, Body: "un comentario válido",
		})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	t.Parallel()

	commentOn := func(listingID, authorID uint) *commentRepoStub {
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, ListingID: listingID, AuthorID: authorID}, nil
		}
		return repo
	}

	t.Run("author deletes own comment", func(t *testing.T) {
		t.Parallel()
		svc := newCommentService(commentOn(1, 2), usersByID(map[uint]*models.User{2: {ID: 2}}))
		assert.NoError(t, svc.DeleteComment(context.Background(), 1, 10, 2))
	})

	t.Run("admin deletes someone else's comment", func(t *testing.T) {
		t.Parallel()
		users := usersByID(map[uint]*models.User{
			5: {ID: 5, Role: models.RoleAdmin},
		})
		svc := newCommentService(commentOn(1, 2), users)
		assert.NoError(t, svc.DeleteComment(context.Background(), 1, 10, 5))
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		t.Parallel()
		users := usersByID(map[uint]*models.User{
			3: {ID: 3, Role: models.RoleUser},
		})
		svc := newCommentService(commentOn(1, 2), users)
		err := svc.DeleteComment(context.Background(), 1, 10, 3)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("comment of another listing", func(t *testing.T) {
		t.Parallel()
		svc := newCommentService(commentOn(9, 2), usersByID(map[uint]*models.User{2: {ID: 2}}))
		err := svc.DeleteComment(context.Background(), 1, 10, 2)
		assertAppErrorCode(t, err, models.CodeInvalidInput)
	})

	t.Run("comment not found", func(t *testing.T) {
		t.Parallel()
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := newCommentService(comments, usersByID(nil))
		err := svc.DeleteComment(context.Background(), 1, 10, 2)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestCommentService_ComputeAggregate(t *testing.T) {
	t.Parallel()

	withRatings := func(ratings []*int) *commentRepoStub {
		repo := noopCommentRepo()
		repo.listByListingFn = func(_ context.Context, listingID uint) ([]*models.Comment, error) {
			comments := make([]*models.Comment, len(ratings))
			for i, r := range ratings {
				comments[i] = &models.Comment{ID: uint(i + 1), ListingID: listingID, Rating: r}
			}
			return comments, nil
		}
		return repo
	}

	t.Run("mean rounds half up", func(t *testing.T) {
		t.Parallel()
		// (5+5+4+3)/4 = 4.25 -> 4.3; the unrated comment is ignored.
		svc := newCommentService(withRatings([]*int{intPtr(5), intPtr(5), intPtr(4), nil, intPtr(3)}), usersByID(nil))
		agg, err := svc.ComputeAggregate(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 4, agg.Count)
		require.NotNil(t, agg.Mean)
		assert.Equal(t, 4.3, *agg.Mean)
		assert.Equal(t, 4, agg.Stars)
	})

	t.Run("stars round half up too", func(t *testing.T) {
		t.Parallel()
		// (4+5)/2 = 4.5 -> mean 4.5, stars 5.
		svc := newCommentService(withRatings([]*int{intPtr(4), intPtr(5)}), usersByID(nil))
		agg, err := svc.ComputeAggregate(context.Background(), 1)
		require.NoError(t, err)
		require.NotNil(t, agg.Mean)
		assert.Equal(t, 4.5, *agg.Mean)
		assert.Equal(t, 5, agg.Stars)
	})

	t.Run("no rated comments", func(t *testing.T) {
		t.Parallel()
		svc := newCommentService(withRatings([]*int{nil, nil}), usersByID(nil))
		agg, err := svc.ComputeAggregate(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 0, agg.Count)
		assert.Nil(t, agg.Mean)
		assert.Equal(t, 0, agg.Stars)
	})

	t.Run("no comments at all", func(t *testing.T) {
		t.Parallel()
		svc := newCommentService(withRatings(nil), usersByID(nil))
		agg, err := svc.ComputeAggregate(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 0, agg.Count)
		assert.Nil(t, agg.Mean)
	})
}

func TestRoundHalfUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v        float64
		decimals int
		want     float64
	}{
		{4.25, 1, 4.3},
		{4.24, 1, 4.2},
		{4.5, 0, 5},
		{4.449, 1, 4.4},
		{3.0, 1, 3.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundHalfUp(tt.v, tt.decimals), "roundHalfUp(%v, %d)", tt.v, tt.decimals)
	}
}
