package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/autosettled/claims-agent/internal/models"
)

// FindCustomer scans for an exact match on first name, last name and email.
// Returns nil with no error when no record matches. When several match, the
// first item the store returns wins; scan order is unspecified.
func (r *Repo) FindCustomer(ctx context.Context, firstName, lastName, email string) (*models.Customer, error) {
	out, err := r.DB.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &r.Tables.Customers,
		FilterExpression: awsStr("first_name = :fn AND last_name = :ln AND email = :em"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":fn": &types.AttributeValueMemberS{Value: firstName},
			":ln": &types.AttributeValueMemberS{Value: lastName},
			":em": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan customers: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var c models.Customer
	if err := attributevalue.UnmarshalMap(out.Items[0], &c); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	return &c, nil
}

// GetPolicy fetches a policy by primary key. Returns nil with no error when
// the policy does not exist.
func (r *Repo) GetPolicy(ctx context.Context, policyID string) (*models.Policy, error) {
	out, err := r.DB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.Tables.Policies,
		Key: map[string]types.AttributeValue{
			"policy_id": &types.AttributeValueMemberS{Value: policyID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get policy %s: %w", policyID, err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var p models.Policy
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal policy: %w", err)
	}
	return &p, nil
}

// ActivePolicies returns every Active policy linked to the customer.
func (r *Repo) ActivePolicies(ctx context.Context, customerID string) ([]models.Policy, error) {
	out, err := r.DB.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &r.Tables.Policies,
		FilterExpression: awsStr("customer_id = :cid AND policy_status = :status"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid":    &types.AttributeValueMemberS{Value: customerID},
			":status": &types.AttributeValueMemberS{Value: string(models.PolicyActive)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan policies: %w", err)
	}
	var policies []models.Policy
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &policies); err != nil {
		return nil, fmt.Errorf("unmarshal policies: %w", err)
	}
	return policies, nil
}

// VehicleForPolicy returns the vehicle linked to a policy, or nil when none
// exists. At most one vehicle is considered per policy: the first scan match.
func (r *Repo) VehicleForPolicy(ctx context.Context, policyID string) (*models.Vehicle, error) {
	out, err := r.DB.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &r.Tables.Vehicles,
		FilterExpression: awsStr("policy_id = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: policyID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan vehicles: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var v models.Vehicle
	if err := attributevalue.UnmarshalMap(out.Items[0], &v); err != nil {
		return nil, fmt.Errorf("unmarshal vehicle: %w", err)
	}
	return &v, nil
}
