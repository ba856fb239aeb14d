package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StatsRepository runs the revenue rollups over the order and line-item
// collections. Grouping happens in the database; the handler only zero-fills
// the fixed bucket shape.
type StatsRepository struct {
	orders *mongo.Collection
	items  *mongo.Collection
}

func NewStatsRepository(m *MongoRepository) *StatsRepository {
	return &StatsRepository{
		orders: m.Collection("transactions"),
		items:  m.Collection("transaction_details"),
	}
}

// BucketUnit selects the $group key applied to createdAt.
type BucketUnit string

const (
	BucketHour  BucketUnit = "$hour"
	BucketDay   BucketUnit = "$dayOfMonth"
	BucketMonth BucketUnit = "$month"
)

type RevenueBucket struct {
	Bucket            int     `bson:"_id"`
	TotalRevenue      float64 `bson:"totalRevenue"`
	TotalTransactions int64   `bson:"totalTransactions"`
}

type SoldBucket struct {
	Bucket    int   `bson:"_id"`
	TotalSold int64 `bson:"totalSold"`
}

func matchRange(start, end time.Time) bson.D {
	return bson.D{{Key: "$match", Value: bson.M{
		"createdAt": bson.M{"$gte": start, "$lte": end},
	}}}
}

func (r *StatsRepository) RevenueBuckets(ctx context.Context, start, end time.Time, unit BucketUnit) ([]RevenueBucket, error) {
	pipeline := mongo.Pipeline{
		matchRange(start, end),
		{{Key: "$group", Value: bson.M{
			"_id":               bson.M{string(unit): "$createdAt"},
			"totalRevenue":      bson.M{"$sum": "$totalPrice"},
			"totalTransactions": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	buckets := []RevenueBucket{}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *StatsRepository) SoldBuckets(ctx context.Context, start, end time.Time, unit BucketUnit) ([]SoldBucket, error) {
	pipeline := mongo.Pipeline{
		matchRange(start, end),
		{{Key: "$group", Value: bson.M{
			"_id":       bson.M{string(unit): "$createdAt"},
			"totalSold": bson.M{"$sum": "$quantity"},
		}}},
	}

	cursor, err := r.items.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	buckets := []SoldBucket{}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// RangeTotals sums revenue, transaction count and sold quantity over an
// arbitrary window without bucketing.
func (r *StatsRepository) RangeTotals(ctx context.Context, start, end time.Time) (revenue float64, transactions, sold int64, err error) {
	orderPipeline := mongo.Pipeline{
		matchRange(start, end),
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"totalRevenue":      bson.M{"$sum": "$totalPrice"},
			"totalTransactions": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.orders.Aggregate(ctx, orderPipeline)
	if err != nil {
		return 0, 0, 0, err
	}
	var orderTotals []struct {
		TotalRevenue      float64 `bson:"totalRevenue"`
		TotalTransactions int64   `bson:"totalTransactions"`
	}
	if err := cursor.All(ctx, &orderTotals); err != nil {
		return 0, 0, 0, err
	}
	if len(orderTotals) > 0 {
		revenue = orderTotals[0].TotalRevenue
		transactions = orderTotals[0].TotalTransactions
	}

	itemPipeline := mongo.Pipeline{
		matchRange(start, end),
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"totalSold": bson.M{"$sum": "$quantity"},
		}}},
	}

	cursor, err = r.items.Aggregate(ctx, itemPipeline)
	if err != nil {
		return 0, 0, 0, err
	}
	var itemTotals []struct {
		TotalSold int64 `bson:"totalSold"`
	}
	if err := cursor.All(ctx, &itemTotals); err != nil {
		return 0, 0, 0, err
	}
	if len(itemTotals) > 0 {
		sold = itemTotals[0].TotalSold
	}

	return revenue, transactions, sold, nil
}
