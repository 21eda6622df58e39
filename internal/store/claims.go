package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/autosettled/claims-agent/internal/models"
)

// CreateSession writes a fresh claim session record.
func (r *Repo) CreateSession(ctx context.Context, s models.ClaimSession) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if _, err := r.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.Tables.Claims,
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// GetSession fetches a claim session by id. Returns nil with no error when
// the claim does not exist.
func (r *Repo) GetSession(ctx context.Context, claimID string) (*models.ClaimSession, error) {
	out, err := r.DB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.Tables.Claims,
		Key: map[string]types.AttributeValue{
			"claim_id": &types.AttributeValueMemberS{Value: claimID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get claim %s: %w", claimID, err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var s models.ClaimSession
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, fmt.Errorf("unmarshal claim: %w", err)
	}
	return &s, nil
}

// ListSessions returns up to limit claim records.
func (r *Repo) ListSessions(ctx context.Context, limit int32) ([]models.ClaimSession, error) {
	out, err := r.DB.Scan(ctx, &dynamodb.ScanInput{
		TableName: &r.Tables.Claims,
		Limit:     &limit,
	})
	if err != nil {
		return nil, fmt.Errorf("scan claims: %w", err)
	}
	var sessions []models.ClaimSession
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &sessions); err != nil {
		return nil, fmt.Errorf("unmarshal claims: %w", err)
	}
	return sessions, nil
}

// PutAudit persists the full settlement audit record. All floating-point
// values are converted to the store's exact decimal Number representation
// before the write; the record is immutable after persistence.
func (r *Repo) PutAudit(ctx context.Context, record map[string]any) error {
	item, err := toItem(record)
	if err != nil {
		return fmt.Errorf("encode audit record: %w", err)
	}
	if _, err := r.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.Tables.Claims,
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put audit record: %w", err)
	}
	return nil
}
