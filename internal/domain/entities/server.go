package entities

// Server is one entry in the Servers collection served verbatim by
// `GET /api/v1/updates/servers/list`.
type Server struct {
	ID  string `bson:"_id"`
	URL string `bson:"url"`
}
