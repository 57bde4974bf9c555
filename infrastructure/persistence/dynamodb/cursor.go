package dynamodb

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// pageKey is the fixed shape of a continuation token. The table key is id;
// queries against the book index additionally carry the index partition key.
type pageKey struct {
	ID     string `json:"id"`
	BookID string `json:"bookId,omitempty"`
}

// EncodeCursor creates an opaque token from DynamoDB's LastEvaluatedKey.
// Returns "" when there are no further pages.
func EncodeCursor(lastEvaluatedKey map[string]types.AttributeValue) string {
	if len(lastEvaluatedKey) == 0 {
		return ""
	}

	key := pageKey{
		ID:     stringAttr(lastEvaluatedKey, "id"),
		BookID: stringAttr(lastEvaluatedKey, "bookId"),
	}

	jsonData, err := json.Marshal(key)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(jsonData)
}

// DecodeCursor decodes a token back to an ExclusiveStartKey. An empty token
// yields a nil key (first page).
func DecodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	if cursor == "" {
		return nil, nil
	}

	jsonData, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor format: %w", err)
	}

	var key pageKey
	if err := json.Unmarshal(jsonData, &key); err != nil {
		return nil, fmt.Errorf("invalid cursor data: %w", err)
	}
	if key.ID == "" {
		return nil, fmt.Errorf("invalid cursor: missing key")
	}

	startKey := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: key.ID},
	}
	if key.BookID != "" {
		startKey["bookId"] = &types.AttributeValueMemberS{Value: key.BookID}
	}

	return startKey, nil
}

func stringAttr(attrs map[string]types.AttributeValue, name string) string {
	if member, ok := attrs[name].(*types.AttributeValueMemberS); ok {
		return member.Value
	}
	return ""
}
