package validators

import "go.mongodb.org/mongo-driver/bson"

var MasterValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"auto_service_id", "full_name", "phone", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":             bson.M{"bsonType": "objectId"},
			"auto_service_id": bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"full_name":       bson.M{"bsonType": "string", "minLength": 2, "maxLength": 150},
			"phone":           bson.M{"bsonType": "string", "maxLength": 16},
			"specialization":  bson.M{"bsonType": "string", "maxLength": 200},
			"is_active":       bson.M{"bsonType": "bool"},
			"created_at":      bson.M{"bsonType": "date"},
		},
	},
}
