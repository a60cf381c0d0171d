package utils

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractStringSlice extracts a string list (L of S, or SS) from a DynamoDB attribute map
func ExtractStringSlice(item map[string]types.AttributeValue, field string) []string {
	attr, ok := item[field]
	if !ok {
		return nil
	}
	switch v := attr.(type) {
	case *types.AttributeValueMemberL:
		var values []string
		for _, member := range v.Value {
			if s, ok := member.(*types.AttributeValueMemberS); ok {
				values = append(values, s.Value)
			}
		}
		return values
	case *types.AttributeValueMemberSS:
		return v.Value
	}
	return nil
}

// ExtractBool extracts a boolean attribute (false when absent)
func ExtractBool(item map[string]types.AttributeValue, field string) bool {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberBOOL); ok {
			return v.Value
		}
	}
	return false
}

// ExtractNumber extracts a numeric attribute's raw string form ("" when absent)
func ExtractNumber(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberN); ok {
			return v.Value
		}
	}
	return ""
}
