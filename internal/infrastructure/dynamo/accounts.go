package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-account-api/internal/domain"
)

// AccountRepo provides typed DynamoDB operations for the accounts table.
type AccountRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAccountRepo(client *dynamodb.Client, tableName string) *AccountRepo {
	return &AccountRepo{client: client, tableName: tableName}
}

func (r *AccountRepo) Put(ctx context.Context, a *domain.Account) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AccountRepo) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("account_id", accountID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByIdentifier resolves an account by email or mobile number. Accounts in
// DELETE status are treated as nonexistent. Only a miss falls through to the
// next index; store failures propagate unchanged.
func (r *AccountRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	a, err := r.queryGSI(ctx, "email-index", "email", identifier, true)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return r.queryGSI(ctx, "mobile_number-index", "mobile_number", identifier, true)
}

// FindDuplicate reports whether a non-deleted account already uses the given
// email or mobile number. A store failure is returned as-is so callers never
// mistake an outage for a free identifier.
func (r *AccountRepo) FindDuplicate(ctx context.Context, email, mobileNumber string) (bool, error) {
	if _, err := r.queryGSI(ctx, "email-index", "email", email, true); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	if _, err := r.queryGSI(ctx, "mobile_number-index", "mobile_number", mobileNumber, true); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	return false, nil
}

func (r *AccountRepo) Update(ctx context.Context, accountID string, updates map[string]interface{}) error {
	fields := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		fields[k] = v
	}
	fields["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(fields)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("account_id", accountID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

// SoftDelete marks an account as deleted. The row is never removed.
func (r *AccountRepo) SoftDelete(ctx context.Context, accountID string) error {
	return r.Update(ctx, accountID, map[string]interface{}{"account_status": domain.StatusDelete})
}

// CountPendingApproval returns the number of accounts with a PENDING
// approval status, following query pagination to the end.
func (r *AccountRepo) CountPendingApproval(ctx context.Context) (int, error) {
	total := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String("approve_status-index"),
			KeyConditionExpression:    aws.String("approve_status = :p"),
			ExpressionAttributeValues: map[string]types.AttributeValue{":p": &types.AttributeValueMemberS{Value: domain.ApprovePending}},
			Select:                    types.SelectCount,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return 0, err
		}
		total += int(out.Count)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return total, nil
}

// GetAdmin resolves the administrator account via the user_type GSI.
func (r *AccountRepo) GetAdmin(ctx context.Context) (*domain.Account, error) {
	return r.queryGSI(ctx, "user_type-index", "user_type", domain.TypeAdmin, false)
}

func (r *AccountRepo) queryGSI(ctx context.Context, index, attr, value string, excludeDeleted bool) (*domain.Account, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#a = :v"),
		ExpressionAttributeNames: map[string]string{
			"#a": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
	}
	if excludeDeleted {
		// No Limit here: DynamoDB applies the filter after the limit, so a
		// deleted row sharing the identifier could otherwise mask a live one.
		input.FilterExpression = aws.String("account_status <> :del")
		input.ExpressionAttributeValues[":del"] = &types.AttributeValueMemberS{Value: domain.StatusDelete}
	} else {
		input.Limit = aws.Int32(1)
	}
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, err
	}
	return &a, nil
}
