package repository

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campushub/internal/domain/repository"
	"campushub/pkg/logger"
)

// watchQuery runs a Firestore snapshot listener for the query and
// pushes the decoded result set on every change. The channel closes
// when the watch ends; the returned cancel is safe to call once.
func watchQuery[T any](ctx context.Context, query firestore.Query, label string) (<-chan []*T, repository.CancelFunc, error) {
	watchCtx, stop := context.WithCancel(ctx)

	snaps := query.Snapshots(watchCtx)
	out := make(chan []*T, 1)

	go func() {
		defer close(out)
		defer snaps.Stop()

		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					logger.Error("%s watch error: %v", label, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Error("%s watch error reading snapshot: %v", label, err)
				return
			}

			items := make([]*T, 0, len(docs))
			for _, doc := range docs {
				var item T
				if err := doc.DataTo(&item); err != nil {
					logger.Warn("%s watch: error parsing document %s: %v", label, doc.Ref.ID, err)
					continue
				}
				items = append(items, &item)
			}

			select {
			case out <- items:
			case <-watchCtx.Done():
				return
			}
		}
	}()

	var once sync.Once
	cancel := repository.CancelFunc(func() {
		once.Do(stop)
	})

	return out, cancel, nil
}
