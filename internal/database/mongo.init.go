package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"field_crm/internal/global"
	"field_crm/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureDatabaseAndCollections đảm bảo database và các collection cần thiết tồn tại.
// Collection chưa tồn tại sẽ được tạo mới.
func EnsureDatabaseAndCollections(client *mongo.Client) error {
	dbName := global.ServerConfig.MongoDB_DBName

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := client.Database(dbName)

	collections := []string{}
	v := reflect.ValueOf(global.MongoDB_ColNames)
	for i := 0; i < v.NumField(); i++ {
		collections = append(collections, v.Field(i).String())
	}

	collList, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	existing := map[string]bool{}
	for _, name := range collList {
		existing[name] = true
	}

	for _, collectionName := range collections {
		if existing[collectionName] {
			continue
		}
		logger.GetAppLogger().Infof("Collection %s chưa tồn tại, tạo mới.", collectionName)
		if err := db.CreateCollection(ctx, collectionName); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", collectionName, err)
		}
	}

	logger.GetAppLogger().Infof("Database and collections are ensured in database: %s", dbName)
	return nil
}

// parseOrder trích xuất thứ tự sắp xếp từ tag (1 hoặc -1)
func parseOrder(tag string) int {
	if strings.Contains(tag, "order:-1") {
		return -1
	}
	return 1
}

// parseIndexTag phân tách và phân tích tag index
// Ví dụ: index:"single:1;compound:user_date_unique" hoặc index:"unique,sparse"
func parseIndexTag(tag string) []map[string]string {
	parts := strings.Split(tag, ";")
	result := []map[string]string{}

	for _, part := range parts {
		subParts := strings.Split(part, ",")
		entry := map[string]string{}
		for _, subPart := range subParts {
			kv := strings.Split(subPart, ":")
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else {
				entry[kv[0]] = ""
			}
		}
		result = append(result, entry)
	}

	return result
}

// ensureIndex tạo index nếu chưa tồn tại với đúng tên
func ensureIndex(
	ctx context.Context,
	collection *mongo.Collection,
	existingIndexes map[string]bson.M,
	indexName string,
	keys bson.D,
	opts *options.IndexOptions,
) error {
	if _, exists := existingIndexes[indexName]; exists {
		return nil
	}

	if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keys,
		Options: opts,
	}); err != nil {
		return fmt.Errorf("không thể tạo index %s: %w", indexName, err)
	}
	logger.GetAppLogger().Infof("Đã tạo index %s trên collection %s", indexName, collection.Name())
	return nil
}

// CreateIndexes đọc tag `index` trên các field của model và tạo index tương ứng.
// Hỗ trợ: single, unique (kèm sparse), text, compound:<group_name>
// (group chứa "_unique" sẽ được tạo unique).
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("không thể lấy danh sách index: %w", err)
	}
	defer cursor.Close(ctx)

	existingIndexes := map[string]bson.M{}
	for cursor.Next(ctx) {
		var indexInfo bson.M
		if err := cursor.Decode(&indexInfo); err != nil {
			return fmt.Errorf("không thể giải mã thông tin index: %w", err)
		}
		if name, ok := indexInfo["name"].(string); ok {
			existingIndexes[name] = indexInfo
		}
	}

	compoundGroups := map[string]bson.D{}
	compoundSparse := map[string]bool{}

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}

		bsonField := strings.Split(field.Tag.Get("bson"), ",")[0]
		if bsonField == "" || bsonField == "-" {
			continue
		}

		for _, config := range parseIndexTag(tag) {
			if _, ok := config["text"]; ok {
				keys := bson.D{{Key: bsonField, Value: "text"}}
				indexName := bsonField + "_text"
				if err := ensureIndex(ctx, collection, existingIndexes, indexName, keys, options.Index().SetName(indexName)); err != nil {
					return err
				}
			}

			if _, ok := config["single"]; ok {
				keys := bson.D{{Key: bsonField, Value: parseOrder(tag)}}
				indexName := bsonField + "_single"
				if err := ensureIndex(ctx, collection, existingIndexes, indexName, keys, options.Index().SetName(indexName)); err != nil {
					return err
				}
			}

			if _, ok := config["unique"]; ok {
				keys := bson.D{{Key: bsonField, Value: 1}}
				indexName := bsonField + "_unique"
				opts := options.Index().SetName(indexName).SetUnique(true)
				if _, hasSparse := config["sparse"]; hasSparse {
					opts = opts.SetSparse(true)
				}
				if err := ensureIndex(ctx, collection, existingIndexes, indexName, keys, opts); err != nil {
					return err
				}
			}

			if groupName, ok := config["compound"]; ok {
				compoundGroups[groupName] = append(compoundGroups[groupName], bson.E{Key: bsonField, Value: parseOrder(tag)})
				if _, hasSparse := config["sparse"]; hasSparse {
					compoundSparse[groupName] = true
				}
			}
		}
	}

	for groupName, fields := range compoundGroups {
		opts := options.Index().SetName(groupName)
		if strings.Contains(groupName, "_unique") {
			opts = opts.SetUnique(true)
		}
		if compoundSparse[groupName] {
			opts = opts.SetSparse(true)
		}
		if err := ensureIndex(ctx, collection, existingIndexes, groupName, fields, opts); err != nil {
			return err
		}
	}

	return nil
}
