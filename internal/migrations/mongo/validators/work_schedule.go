package validators

import "go.mongodb.org/mongo-driver/bson"

var WorkScheduleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"master_id",
			"schedule_type",
			"start_time",
			"end_time",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"master_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"schedule_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"weekly",
					"monthly",
					"custom",
				},
			},

			"start_date": bson.M{
				"bsonType": "string",
			},

			"end_date": bson.M{
				"bsonType": "string",
			},

			"custom_days": bson.M{
				"bsonType":  "string",
				"maxLength": 30,
			},

			"start_time": bson.M{
				"bsonType": "string",
			},

			"end_time": bson.M{
				"bsonType": "string",
			},

			"is_active": bson.M{
				"bsonType": "bool",
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
