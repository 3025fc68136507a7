package validators

import "go.mongodb.org/mongo-driver/bson"

var AccountValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"email", "role", "created_at"},
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "objectId"},
			"email":      bson.M{"bsonType": "string", "minLength": 3, "maxLength": 254},
			"name":       bson.M{"bsonType": "string", "maxLength": 100},
			"role":       bson.M{"bsonType": "string", "minLength": 1},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var SpecialEventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"date"},
		"properties": bson.M{
			"date":  bson.M{"bsonType": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"title": bson.M{"bsonType": "string", "maxLength": 200},
		},
	},
}

// RoomLockValidator keeps _id as the lock key string rather than an ObjectID.
var RoomLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "owner", "expires_at"},
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"owner":      bson.M{"bsonType": "string"},
			"expires_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
