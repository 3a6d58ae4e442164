package store

import (
	"context"
	"errors"
	"fmt"

	"blogapi/domain"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// DynamoDB implements PostStore and UserStore on two DynamoDB tables: the post
// table keyed by "id" and the user table keyed by "email".
type DynamoDB struct {
	client    dynamodbiface.DynamoDBAPI
	postTable string
	userTable string
}

func NewDynamoDB(client dynamodbiface.DynamoDBAPI, postTable, userTable string) *DynamoDB {
	return &DynamoDB{
		client:    client,
		postTable: postTable,
		userTable: userTable,
	}
}

func (s *DynamoDB) GetPost(ctx context.Context, id string) (domain.Post, error) {
	var post domain.Post
	err := s.getItem(ctx, s.postTable, "id", id, &post)
	return post, err
}

func (s *DynamoDB) PutPost(ctx context.Context, post domain.Post) error {
	return s.putItem(ctx, s.postTable, post, nil)
}

func (s *DynamoDB) ReplacePost(ctx context.Context, post domain.Post) error {
	err := s.putItem(ctx, s.postTable, post, ownerCondition(post.Email))
	if errors.Is(err, ErrConditionFailed) {
		return s.classifyOwnerFailure(ctx, post.ID, err)
	}
	return err
}

func (s *DynamoDB) DeletePost(ctx context.Context, id, owner string) error {
	cond := ownerCondition(owner)
	input := &dynamodb.DeleteItemInput{
		TableName:                 aws.String(s.postTable),
		Key:                       stringKey("id", id),
		ConditionExpression:       cond.expression,
		ExpressionAttributeNames:  cond.names,
		ExpressionAttributeValues: cond.values,
	}
	_, err := s.client.DeleteItemWithContext(ctx, input)
	if err != nil {
		err = translate(err)
		if errors.Is(err, ErrConditionFailed) {
			return s.classifyOwnerFailure(ctx, id, err)
		}
		return fmt.Errorf("delete post %q: %w", id, err)
	}
	return nil
}

func (s *DynamoDB) ScanPosts(ctx context.Context) ([]domain.Post, error) {
	posts := []domain.Post{}
	var decodeErr error
	err := s.client.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.postTable),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		var batch []domain.Post
		if decodeErr = dynamodbattribute.UnmarshalListOfMaps(page.Items, &batch); decodeErr != nil {
			return false
		}
		posts = append(posts, batch...)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.postTable, translate(err))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("scan %s: %w", s.postTable, decodeErr)
	}
	return posts, nil
}

func (s *DynamoDB) GetUser(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := s.getItem(ctx, s.userTable, "email", email, &user)
	return user, err
}

func (s *DynamoDB) PutUser(ctx context.Context, user domain.User) error {
	return s.putItem(ctx, s.userTable, user, nil)
}

func (s *DynamoDB) CreateUser(ctx context.Context, user domain.User) error {
	err := s.putItem(ctx, s.userTable, user, &condition{
		expression: aws.String("attribute_not_exists(#k)"),
		names:      map[string]*string{"#k": aws.String("email")},
	})
	if errors.Is(err, ErrConditionFailed) {
		return fmt.Errorf("user %q: %w", user.Email, ErrConflict)
	}
	return err
}

type condition struct {
	expression *string
	names      map[string]*string
	values     map[string]*dynamodb.AttributeValue
}

func ownerCondition(owner string) *condition {
	return &condition{
		expression: aws.String("#e = :owner"),
		names:      map[string]*string{"#e": aws.String("email")},
		values: map[string]*dynamodb.AttributeValue{
			":owner": {S: aws.String(owner)},
		},
	}
}

func (s *DynamoDB) getItem(ctx context.Context, table, keyName, key string, out interface{}) error {
	output, err := s.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       stringKey(keyName, key),
	})
	if err != nil {
		return fmt.Errorf("get %s %q: %w", table, key, translate(err))
	}
	if output.Item == nil {
		return fmt.Errorf("get %s %q: %w", table, key, ErrNotFound)
	}
	if err := dynamodbattribute.UnmarshalMap(output.Item, out); err != nil {
		return fmt.Errorf("decode %s %q: %w", table, key, err)
	}
	return nil
}

func (s *DynamoDB) putItem(ctx context.Context, table string, in interface{}, cond *condition) error {
	item, err := dynamodbattribute.MarshalMap(in)
	if err != nil {
		return fmt.Errorf("encode %s item: %w", table, err)
	}
	input := &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	}
	if cond != nil {
		input.ConditionExpression = cond.expression
		input.ExpressionAttributeNames = cond.names
		input.ExpressionAttributeValues = cond.values
	}
	if _, err := s.client.PutItemWithContext(ctx, input); err != nil {
		return fmt.Errorf("put %s item: %w", table, translate(err))
	}
	return nil
}

// classifyOwnerFailure tells a missing post apart from an owner mismatch
// after a rejected conditional write.
func (s *DynamoDB) classifyOwnerFailure(ctx context.Context, id string, cause error) error {
	if _, err := s.GetPost(ctx, id); errors.Is(err, ErrNotFound) {
		return err
	}
	return cause
}

func stringKey(name, value string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		name: {S: aws.String(value)},
	}
}

func translate(err error) error {
	if e, ok := err.(awserr.Error); ok && e.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
		return fmt.Errorf("%v: %w", e, ErrConditionFailed)
	}
	return err
}
