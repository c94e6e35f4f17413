package validators

import "go.mongodb.org/mongo-driver/bson"

var AutoServiceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"region_id", "name", "slug", "address", "phone", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":         bson.M{"bsonType": "objectId"},
			"region_id":   bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"name":        bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"slug":        bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"address":     bson.M{"bsonType": "string", "minLength": 2, "maxLength": 200},
			"phone":       bson.M{"bsonType": "string", "maxLength": 16},
			"email":       bson.M{"bsonType": "string", "maxLength": 254},
			"description": bson.M{"bsonType": "string", "maxLength": 2000},
			"is_active":   bson.M{"bsonType": "bool"},
			"created_at":  bson.M{"bsonType": "date"},
		},
	},
}
