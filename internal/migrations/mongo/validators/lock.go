package validators

import "go.mongodb.org/mongo-driver/bson"

// AdvisoryLockValidator covers both lock collections. The _id is the lock
// key, a plain string rather than an ObjectID.
var AdvisoryLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "expires_at", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string", "minLength": 1},
			"expires_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
