// Package db writes end-of-session summaries to DynamoDB. Nothing is
// ever read back; live state stays in the process.
package db

import (
	"fmt"
	"strconv"

	"github.com/Ayman-Singh/IoT-InvisiStrings/constants"
	"github.com/Ayman-Singh/IoT-InvisiStrings/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

func numAttr(v uint64) *dynamodb.AttributeValue {
	return &dynamodb.AttributeValue{N: aws.String(strconv.FormatUint(v, 10))}
}

func floatAttr(v float64) *dynamodb.AttributeValue {
	return &dynamodb.AttributeValue{N: aws.String(strconv.FormatFloat(v, 'f', -1, 64))}
}

// PutSessionSummary stores one summary item keyed by session id.
func PutSessionSummary(summary model.SessionSummary) error {
	endpoint := constants.GetDynamoEndpoint()
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		return fmt.Errorf("dynamodb session: %w", err)
	}

	client := dynamodb.New(sess)
	item := map[string]*dynamodb.AttributeValue{
		"PK":          {S: aws.String(summary.SessionID)},
		"StartedAt":   floatAttr(summary.StartedAt),
		"EndedAt":     floatAttr(summary.EndedAt),
		"Packets":     numAttr(summary.Counters.Packets),
		"UpStrums":    numAttr(summary.Counters.UpStrums),
		"DownStrums":  numAttr(summary.Counters.DownStrums),
		"TotalStrums": numAttr(summary.Counters.TotalStrums),
		"TotalPlays":  numAttr(summary.Counters.TotalPlays),
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(constants.SummaryTable),
		Item:      item,
	}
	if _, err := client.PutItem(input); err != nil {
		return fmt.Errorf("dynamodb put: %w", err)
	}
	return nil
}
