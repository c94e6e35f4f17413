package validators

import "go.mongodb.org/mongo-driver/bson"

var OrderValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"auto_service_id",
			"client_name",
			"client_phone",
			"car_info",
			"preferred_date",
			"preferred_time",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"auto_service_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			// Empty until the order is assigned.
			"master_id": bson.M{
				"bsonType":  "string",
				"maxLength": 24,
			},

			"client_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"client_phone": bson.M{
				"bsonType":  "string",
				"maxLength": 16,
			},

			"car_info": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"preferred_date": bson.M{
				"bsonType": "string",
			},

			"preferred_time": bson.M{
				"bsonType": "string",
			},

			"estimated_duration_min": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  720,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"new",
					"confirmed",
					"in_progress",
					"completed",
					"cancelled",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
