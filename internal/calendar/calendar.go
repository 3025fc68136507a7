// Package calendar answers whether a date carries a special event, which the
// month grid flags for guests.
package calendar

import (
	"context"
	"fmt"

	"stopshot/pkg/config"
	mongotx "stopshot/pkg/db/mongo"
	"stopshot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Special_events"

type Calendar interface {
	// SpecialEvents returns the set of dates in [from, to] with an event.
	SpecialEvents(ctx context.Context, from, to model.Date) (map[model.Date]bool, error)
}

type staticCalendar struct {
	dates map[model.Date]bool
}

// NewStaticCalendar serves a fixed list of dates, typically SPECIAL_EVENT_DATES.
func NewStaticCalendar(dates []model.Date) Calendar {
	set := make(map[model.Date]bool, len(dates))
	for _, d := range dates {
		set[d] = true
	}
	return &staticCalendar{dates: set}
}

func (c *staticCalendar) SpecialEvents(_ context.Context, from, to model.Date) (map[model.Date]bool, error) {
	out := make(map[model.Date]bool)
	for d := range c.dates {
		if !d.Before(from) && !d.After(to) {
			out[d] = true
		}
	}
	return out, nil
}

type mongoCalendar struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCalendar(cfg *config.Config) Calendar {
	return &mongoCalendar{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

// Dates are stored as YYYY-MM-DD strings, so a lexical range is a date range.
func (c *mongoCalendar) SpecialEvents(ctx context.Context, from, to model.Date) (map[model.Date]bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, c.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"date": bson.M{"$gte": from.String(), "$lte": to.String()}}
	cursor, err := c.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find special events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []model.SpecialEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode special events: %w", err)
	}

	out := make(map[model.Date]bool, len(events))
	for _, e := range events {
		out[e.Date] = true
	}
	return out, nil
}
