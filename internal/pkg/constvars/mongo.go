package constvars

const (
	MongoCollectionAppointments  = "appointments"
	MongoCollectionUsers         = "users"
	MongoCollectionNurses        = "nurses"
	MongoCollectionNotifications = "notifications"
	MongoCollectionChats         = "chats"
	MongoCollectionLedgerEvents  = "ledger_events"
)
