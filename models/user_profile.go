package models

// UserProfile defines the structure for user profiles. Profiles are owned by
// the signup/profile-edit flows; the matching core only reads them.
type UserProfile struct {
	UID       string   `dynamodbav:"uid" json:"uid"` // ✅ Partition Key
	Name      string   `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Bio       string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Gender    string   `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	DOB       string   `dynamodbav:"dob,omitempty" json:"dob,omitempty"`
	Photos    []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"` // ordered, may be empty
	IsBot     bool     `dynamodbav:"isBot,omitempty" json:"isBot,omitempty"`   // synthetic greeting account
	CreatedAt string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "Users"
