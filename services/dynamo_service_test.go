package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func interactionPage(ids ...string) []map[string]types.AttributeValue {
	var items []map[string]types.AttributeValue
	for _, id := range ids {
		items = append(items, map[string]types.AttributeValue{
			"toUserId": &types.AttributeValueMemberS{Value: id},
		})
	}
	return items
}

func TestQueryPages_DrainsEveryPage(t *testing.T) {
	// Three pages; the last-page marker appears only on the first two.
	pages := []*dynamodb.QueryOutput{
		{
			Items:            interactionPage("cand1", "cand2"),
			LastEvaluatedKey: map[string]types.AttributeValue{"toUserId": &types.AttributeValueMemberS{Value: "cand2"}},
		},
		{
			Items:            interactionPage("cand3"),
			LastEvaluatedKey: map[string]types.AttributeValue{"toUserId": &types.AttributeValueMemberS{Value: "cand3"}},
		},
		{Items: interactionPage("cand4")},
	}

	var calls int
	var startKeys []map[string]types.AttributeValue
	items, err := queryPages(context.Background(), func(ctx context.Context, startKey map[string]types.AttributeValue) (*dynamodb.QueryOutput, error) {
		startKeys = append(startKeys, startKey)
		page := pages[calls]
		calls++
		return page, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 3 {
		t.Fatalf("expected 3 page fetches, got %d", calls)
	}
	// Rows past the first page must still arrive; dropping them would let a
	// previously rejected candidate back into the signal funnel.
	if len(items) != 4 {
		t.Fatalf("expected 4 items across pages, got %d", len(items))
	}
	last, ok := items[3]["toUserId"].(*types.AttributeValueMemberS)
	if !ok || last.Value != "cand4" {
		t.Fatalf("expected final-page item cand4, got %v", items[3])
	}

	if startKeys[0] != nil {
		t.Fatal("first fetch must start from the beginning")
	}
	for i := 1; i < len(startKeys); i++ {
		key, ok := startKeys[i]["toUserId"].(*types.AttributeValueMemberS)
		if !ok || key.Value != fmt.Sprintf("cand%d", i+1) {
			t.Fatalf("fetch %d did not resume from the previous LastEvaluatedKey: %v", i, startKeys[i])
		}
	}
}

func TestQueryPages_StopsOnFirstError(t *testing.T) {
	var calls int
	_, err := queryPages(context.Background(), func(ctx context.Context, startKey map[string]types.AttributeValue) (*dynamodb.QueryOutput, error) {
		calls++
		if calls == 1 {
			return &dynamodb.QueryOutput{
				Items:            interactionPage("cand1"),
				LastEvaluatedKey: map[string]types.AttributeValue{"toUserId": &types.AttributeValueMemberS{Value: "cand1"}},
			}, nil
		}
		return nil, errors.New("dynamo down")
	})
	if err == nil {
		t.Fatal("expected page-fetch error to propagate")
	}
	if calls != 2 {
		t.Fatalf("expected fetching to stop after the failed page, got %d calls", calls)
	}
}
