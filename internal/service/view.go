package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/tree"
	"github.com/pribylovaa/go-forum/internal/votes"
	"github.com/pribylovaa/go-forum/pkg/log"
	"golang.org/x/sync/errgroup"
)

// ThreadView - полная страница темы.
type ThreadView struct {
	Thread *models.Thread
	Votes  votes.Tally
	// MyVote - голос просматривающего (votes.None для анонима).
	MyVote       votes.Direction
	Comments     tree.Forest[models.Comment]
	CommentCount int64
}

// ThreadView собирает тему, агрегат голосов, голос зрителя, дерево комментариев
// и количество комментариев. Запросы выполняются параллельно под общим контекстом:
// ошибка любого из них или отмена запроса прерывает остальные.
func (s *Service) ThreadView(ctx context.Context, viewer, id uuid.UUID) (*ThreadView, error) {
	const op = "service/view/ThreadView"

	lg := log.From(ctx).With("op", op, "thread_id", id.String())

	if id == uuid.Nil {
		lg.Warn("invalid_argument: empty thread_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	var view ThreadView
	entityID := id.String()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := s.storage.ThreadByID(gctx, id)
		if err != nil {
			return err
		}
		view.Thread = t
		return nil
	})

	g.Go(func() error {
		t, err := s.VoteCount(gctx, models.EntityThread, entityID)
		if err != nil {
			return err
		}
		view.Votes = t
		return nil
	})

	if viewer != uuid.Nil {
		g.Go(func() error {
			d, err := s.UserVote(gctx, viewer, models.EntityThread, entityID)
			if err != nil {
				return err
			}
			view.MyVote = d
			return nil
		})
	}

	g.Go(func() error {
		f, err := s.commentForest(gctx, id)
		if err != nil {
			return err
		}
		view.Comments = f
		return nil
	})

	g.Go(func() error {
		n, err := s.comments.CountComments(gctx, id)
		if err != nil {
			return err
		}
		view.CommentCount = n
		return nil
	})

	if err := g.Wait(); err != nil {
		// Ошибки из VoteCount/UserVote уже сервисные, остальные маппим.
		if Classify(err) != ClassTransient {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return nil, fromStorage(lg, op, err)
	}

	view.Thread.Upvotes, view.Thread.Downvotes = view.Votes.Up, view.Votes.Down
	view.Thread.CommentCount = view.CommentCount

	return &view, nil
}
