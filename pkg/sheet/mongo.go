package sheet

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// countersCollection stores the next free position per collection
const countersCollection = "RowCounters"

// MongoStore is a Store that keeps every collection as documents ordered by their position
type MongoStore struct {
	DB *mongo.Database
}

type rowDocument struct {
	Position int      `bson:"position"`
	Cells    []string `bson:"cells"`
}

type counterDocument struct {
	Collection string `bson:"_id"`
	Next       int    `bson:"next"`
}

// EnsureIndexes creates the unique position index on every collection
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	for _, collection := range []Collection{Tasks, Users, Remarks, WorkLogs, Reporting} {
		_, err := s.DB.Collection(string(collection)).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "position", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return unavailable(err, "indexing %s", collection)
		}
	}

	return nil
}

// ReadRange reads all rows sorted by position. Missing positions are filled with tombstones.
func (s *MongoStore) ReadRange(ctx context.Context, collection Collection) ([]Row, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.M{"position": 1})

	cursor, err := s.DB.Collection(string(collection)).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, unavailable(err, "reading %s", collection)
	}

	var documents []rowDocument
	err = cursor.All(ctx, &documents)
	if err != nil {
		return nil, unavailable(err, "decoding %s", collection)
	}

	return documentRows(documents), nil
}

// documentRows lays out documents sorted by position as rows. Gaps left by deleted documents become tombstones.
func documentRows(documents []rowDocument) []Row {
	rows := []Row{}
	for _, document := range documents {
		for len(rows)+firstDataPosition < document.Position {
			rows = append(rows, Row{})
		}
		rows = append(rows, Row(document.Cells))
	}

	return rows
}

// Append allocates the next position atomically and inserts the row there
func (s *MongoStore) Append(ctx context.Context, collection Collection, row Row) error {
	position, err := s.nextPosition(ctx, collection)
	if err != nil {
		return err
	}

	_, err = s.DB.Collection(string(collection)).InsertOne(ctx, rowDocument{Position: position, Cells: row})
	if err != nil {
		return unavailable(err, "appending to %s", collection)
	}

	return nil
}

// UpdateCell sets a single element of the cells array
func (s *MongoStore) UpdateCell(ctx context.Context, collection Collection, position int, column int, value string) error {
	result, err := s.DB.Collection(string(collection)).UpdateOne(ctx,
		bson.M{"position": position},
		bson.M{"$set": bson.M{fmt.Sprintf("cells.%d", column): value}})
	if err != nil {
		return unavailable(err, "updating %s", collection)
	}

	if result.MatchedCount != 1 {
		return errors.Wrapf(ErrNotFound, "%s position %d", collection, position)
	}

	return nil
}

// ClearRow empties the cells of a row, the document stays to hold the position
func (s *MongoStore) ClearRow(ctx context.Context, collection Collection, position int) error {
	result, err := s.DB.Collection(string(collection)).UpdateOne(ctx,
		bson.M{"position": position},
		bson.M{"$set": bson.M{"cells": bson.A{}}})
	if err != nil {
		return unavailable(err, "clearing %s", collection)
	}

	if result.MatchedCount != 1 {
		return errors.Wrapf(ErrNotFound, "%s position %d", collection, position)
	}

	return nil
}

func (s *MongoStore) nextPosition(ctx context.Context, collection Collection) (int, error) {
	findOptions := options.FindOneAndUpdate()
	findOptions.SetUpsert(true)
	findOptions.SetReturnDocument(options.After)

	result := s.DB.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": string(collection)},
		bson.M{"$inc": bson.M{"next": 1}},
		findOptions)
	if result.Err() != nil {
		return 0, unavailable(result.Err(), "allocating position in %s", collection)
	}

	counter := counterDocument{}
	err := result.Decode(&counter)
	if err != nil {
		return 0, unavailable(err, "allocating position in %s", collection)
	}

	// The counter starts at 1 so the first row lands right below the header
	return counter.Next + HeaderRows, nil
}
