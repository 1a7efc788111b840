package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
	"campushub/pkg/errors"
)

type firestoreAssignmentRepository struct {
	client *firestore.Client
}

func NewFirestoreAssignmentRepository(client *firestore.Client) repository.AssignmentRepository {
	return &firestoreAssignmentRepository{
		client: client,
	}
}

func (r *firestoreAssignmentRepository) Create(ctx context.Context, request *entity.AssignmentRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}

	request.CreatedAt = time.Now()

	_, err := r.client.Collection("assignmentRequests").Doc(request.ID).Set(ctx, request)
	if err != nil {
		return errors.Internal("Failed to create assignment request", err)
	}

	return nil
}

func (r *firestoreAssignmentRepository) GetByID(ctx context.Context, id string) (*entity.AssignmentRequest, error) {
	doc, err := r.client.Collection("assignmentRequests").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Assignment request not found", nil)
		}
		return nil, errors.Internal("Failed to get assignment request", err)
	}

	var request entity.AssignmentRequest
	if err := doc.DataTo(&request); err != nil {
		return nil, errors.Internal("Failed to parse assignment request data", err)
	}

	return &request, nil
}

func (r *firestoreAssignmentRepository) Update(ctx context.Context, request *entity.AssignmentRequest) error {
	_, err := r.client.Collection("assignmentRequests").Doc(request.ID).Set(ctx, request)
	if err != nil {
		return errors.Internal("Failed to update assignment request", err)
	}

	return nil
}

func (r *firestoreAssignmentRepository) List(ctx context.Context) ([]*entity.AssignmentRequest, error) {
	query := r.client.Collection("assignmentRequests").OrderBy("createdAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching assignment requests: %v", err)
		return nil, errors.Internal("Failed to fetch assignment requests", err)
	}

	var requests []*entity.AssignmentRequest
	for _, doc := range docs {
		var request entity.AssignmentRequest
		if err := doc.DataTo(&request); err != nil {
			log.Printf("Error parsing assignment request data: %v", err)
			continue
		}
		requests = append(requests, &request)
	}

	return requests, nil
}

func (r *firestoreAssignmentRepository) ListByAuthor(ctx context.Context, authorID string) ([]*entity.AssignmentRequest, error) {
	query := r.client.Collection("assignmentRequests").
		Where("authorId", "==", authorID).
		OrderBy("createdAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching requests for author %s: %v", authorID, err)
		return nil, errors.Internal("Failed to fetch requests by author", err)
	}

	var requests []*entity.AssignmentRequest
	for _, doc := range docs {
		var request entity.AssignmentRequest
		if err := doc.DataTo(&request); err != nil {
			continue
		}
		requests = append(requests, &request)
	}

	return requests, nil
}

func (r *firestoreAssignmentRepository) WatchAll(ctx context.Context) (<-chan []*entity.AssignmentRequest, repository.CancelFunc, error) {
	query := r.client.Collection("assignmentRequests").OrderBy("createdAt", firestore.Desc)
	return watchQuery[entity.AssignmentRequest](ctx, query, "assignmentRequests")
}
