package contextkeys

// Custom key type avoids collisions with other packages writing to context.
type contextKey string

// DBContextKey is the key under which a *gorm.DB (pool or transaction)
// is stored in the request context.
const DBContextKey = contextKey("db")
