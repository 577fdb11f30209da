package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/repository"
)

func TestUserEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	require.NoError(t, users.Create(ctx, &domain.User{Name: "Ann", Email: "ann@example.com"}))
	err := users.Create(ctx, &domain.User{Name: "Other", Email: "ANN@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := users.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.NotEmpty(t, got.ID)

	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	listings := NewStore().Listings()

	listing := &domain.Listing{OwnerID: "u1", Title: "Cakes", Type: domain.ListingTypeProduct}
	require.NoError(t, listings.Create(ctx, listing))

	got, err := listings.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	got.Title = "changed"

	again, err := listings.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cakes", again.Title)
}

func TestListingListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	listings := NewStore().Listings()

	for _, l := range []domain.Listing{
		{OwnerID: "u1", Title: "Birthday cakes", Type: domain.ListingTypeProduct},
		{OwnerID: "u2", Title: "Tutoring", Type: domain.ListingTypeService},
		{OwnerID: "u1", Title: "Wedding cakes", Type: domain.ListingTypeProduct},
	} {
		l := l
		require.NoError(t, listings.Create(ctx, &l))
	}

	all, err := listings.List(ctx, repository.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Wedding cakes", all[0].Title)

	cakes, err := listings.List(ctx, repository.ListingFilter{Search: "CAKES"})
	require.NoError(t, err)
	assert.Len(t, cakes, 2)

	count, err := listings.Count(ctx, repository.ListingFilter{Type: domain.ListingTypeService})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	paged, err := listings.List(ctx, repository.ListingFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "Birthday cakes", paged[0].Title)
}

func TestArticleDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	articles, comments := store.Articles(), store.Comments()

	article := &domain.Article{AuthorID: "u1", Title: "Hope", Slug: "hope-1"}
	require.NoError(t, articles.Create(ctx, article))

	top := &domain.Comment{ArticleID: article.ID, AuthorID: "u2", Content: "Amen"}
	require.NoError(t, comments.Create(ctx, top))
	reply := &domain.Comment{ArticleID: article.ID, AuthorID: "u1", Content: "Thanks", ParentID: &top.ID}
	require.NoError(t, comments.Create(ctx, reply))

	liked, err := articles.ToggleLike(ctx, article.ID, "u2")
	require.NoError(t, err)
	assert.True(t, liked)
	require.NoError(t, articles.RecordView(ctx, article.ID, "u2"))

	require.NoError(t, articles.Delete(ctx, article.ID))

	_, err = comments.GetByID(ctx, top.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = comments.GetByID(ctx, reply.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	likes, err := articles.CountLikes(ctx, article.ID)
	require.NoError(t, err)
	assert.Zero(t, likes)
	views, err := articles.CountViewsByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Zero(t, views)
}

func TestArticleSlugUnique(t *testing.T) {
	ctx := context.Background()
	articles := NewStore().Articles()

	require.NoError(t, articles.Create(ctx, &domain.Article{Title: "A", Slug: "same"}))
	assert.ErrorIs(t, articles.Create(ctx, &domain.Article{Title: "B", Slug: "same"}), repository.ErrDuplicate)
}

func TestArticleViewsAndLikes(t *testing.T) {
	ctx := context.Background()
	articles := NewStore().Articles()

	article := &domain.Article{AuthorID: "u1", Title: "Grace", Slug: "grace-1"}
	require.NoError(t, articles.Create(ctx, article))

	for i := 1; i <= 3; i++ {
		n, err := articles.IncrementViews(ctx, article.ID)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	require.NoError(t, articles.RecordView(ctx, article.ID, "reader"))
	require.NoError(t, articles.RecordView(ctx, article.ID, "reader"))
	read, err := articles.CountViewsByUser(ctx, "reader")
	require.NoError(t, err)
	assert.Equal(t, 1, read)

	liked, err := articles.ToggleLike(ctx, article.ID, "reader")
	require.NoError(t, err)
	assert.True(t, liked)
	liked, err = articles.ToggleLike(ctx, article.ID, "reader")
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = articles.ToggleLike(ctx, "missing", "reader")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCommentRepliesOldestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	article := &domain.Article{Title: "T", Slug: "t"}
	require.NoError(t, store.Articles().Create(ctx, article))

	comments := store.Comments()
	top := &domain.Comment{ArticleID: article.ID, Content: "first"}
	require.NoError(t, comments.Create(ctx, top))
	for _, body := range []string{"r1", "r2"} {
		require.NoError(t, comments.Create(ctx, &domain.Comment{ArticleID: article.ID, Content: body, ParentID: &top.ID}))
	}

	replies, err := comments.ListReplies(ctx, top.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "r1", replies[0].Content)

	count, err := comments.CountTopLevel(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, comments.Delete(ctx, top.ID))
	replies, err = comments.ListReplies(ctx, top.ID)
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestPrayerPublicFilterAndCascade(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	prayers, responses := store.Prayers(), store.PrayerResponses()

	public := &domain.Prayer{AuthorID: "u1", Title: "Healing", Type: domain.PrayerTypeRequest, IsPublic: true}
	private := &domain.Prayer{AuthorID: "u1", Title: "Private", Type: domain.PrayerTypeRequest}
	require.NoError(t, prayers.Create(ctx, public))
	require.NoError(t, prayers.Create(ctx, private))

	listed, err := prayers.List(ctx, repository.PrayerFilter{PublicOnly: true})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, public.ID, listed[0].ID)

	anonymous := &domain.Prayer{AuthorID: "u1", Title: "Unnamed", Type: domain.PrayerTypeRequest, IsPublic: true, IsAnonymous: true}
	require.NoError(t, prayers.Create(ctx, anonymous))
	named, err := prayers.Count(ctx, repository.PrayerFilter{AuthorID: "u1", PublicOnly: true, NamedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, named)

	require.NoError(t, responses.Create(ctx, &domain.PrayerResponse{PrayerID: public.ID, AuthorID: "u2", Content: "Praying"}))
	supported, err := prayers.ToggleSupport(ctx, public.ID, "u2")
	require.NoError(t, err)
	assert.True(t, supported)

	require.NoError(t, prayers.Delete(ctx, public.ID))
	n, err := responses.CountByPrayer(ctx, public.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = prayers.CountSupporters(ctx, public.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	err = responses.Create(ctx, &domain.PrayerResponse{PrayerID: public.ID, Content: "late"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCommentLikesToggleAndCascade(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	article := &domain.Article{Title: "T", Slug: "t"}
	require.NoError(t, store.Articles().Create(ctx, article))

	comments := store.Comments()
	top := &domain.Comment{ArticleID: article.ID, Content: "first"}
	require.NoError(t, comments.Create(ctx, top))

	liked, err := comments.ToggleLike(ctx, top.ID, "u1")
	require.NoError(t, err)
	assert.True(t, liked)
	_, err = comments.ToggleLike(ctx, top.ID, "u2")
	require.NoError(t, err)

	got, err := comments.GetByID(ctx, top.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikeCount)

	liked, err = comments.ToggleLike(ctx, top.ID, "u1")
	require.NoError(t, err)
	assert.False(t, liked)
	n, err := comments.CountLikes(ctx, top.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = comments.ToggleLike(ctx, "missing", "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, comments.Delete(ctx, top.ID))
	n, err = comments.CountLikes(ctx, top.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCategoriesCountPublishedOnly(t *testing.T) {
	ctx := context.Background()
	articles := NewStore().Articles()

	for i, a := range []domain.Article{
		{Category: "Faith", Status: domain.ArticleStatusPublished},
		{Category: "Faith", Status: domain.ArticleStatusPublished},
		{Category: "Family", Status: domain.ArticleStatusPublished},
		{Category: "Hidden", Status: domain.ArticleStatusDraft},
	} {
		a := a
		a.Title = a.Category
		a.Slug = a.Category + string(rune('a'+i))
		require.NoError(t, articles.Create(ctx, &a))
	}

	got, err := articles.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryCount{{Name: "Faith", Count: 2}, {Name: "Family", Count: 1}}, got)
}

func TestConversationFindOrCreateAndMessages(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	ann := &domain.User{Name: "Ann", Email: "ann@example.com"}
	bea := &domain.User{Name: "Bea", Email: "bea@example.com"}
	require.NoError(t, store.Users().Create(ctx, ann))
	require.NoError(t, store.Users().Create(ctx, bea))

	conversations, messages := store.Conversations(), store.Messages()
	conv, created, err := conversations.FindOrCreate(ctx, domain.NewParticipants(ann.ID, bea.ID))
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := conversations.FindOrCreate(ctx, domain.NewParticipants(bea.ID, ann.ID))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, conv.ID, again.ID)

	_, _, err = conversations.FindOrCreate(ctx, domain.NewParticipants(ann.ID, "ghost"))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	for _, body := range []string{"hi", "hello", "how are you"} {
		sender := ann.ID
		if body == "hello" {
			sender = bea.ID
		}
		require.NoError(t, messages.Create(ctx, &domain.Message{ConversationID: conv.ID, SenderID: sender, Content: body}))
	}
	assert.ErrorIs(t, messages.Create(ctx, &domain.Message{ConversationID: "missing", SenderID: ann.ID, Content: "x"}), repository.ErrNotFound)

	list, err := messages.ListByConversation(ctx, conv.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "hi", list[0].Content)

	unread, err := messages.CountUnread(ctx, conv.ID, bea.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)
	changed, err := messages.MarkRead(ctx, conv.ID, bea.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)
	unread, err = messages.CountUnread(ctx, conv.ID, bea.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
	unread, err = messages.CountUnread(ctx, conv.ID, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	total, err := conversations.CountForUser(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	require.NoError(t, messages.Delete(ctx, list[0].ID))
	assert.ErrorIs(t, messages.Delete(ctx, list[0].ID), repository.ErrNotFound)
}
