package waste

// Ключи коллекций в хранилище
const (
	KeyUsers         = "users"
	KeyBookings      = "bookings"
	KeyTransactions  = "transactions"
	KeyCaptures      = "captures"
	KeyNotifications = "notifications"
	KeyTickets       = "tickets"
	KeyFacilities    = "facilities"
	KeyTraining      = "training"
)

// Все известные коллекции в порядке инициализации
var Collections = []string{
	KeyUsers,
	KeyBookings,
	KeyTransactions,
	KeyCaptures,
	KeyNotifications,
	KeyTickets,
	KeyFacilities,
	KeyTraining,
}

func IsCollection(key string) bool {
	for _, k := range Collections {
		if k == key {
			return true
		}
	}
	return false
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const (
	PurposeFine     = "Fine"
	StatusConfirmed = "Confirmed"
	DateLayout      = "2006-01-02"
)

// Пользователь
type User struct {
	ID      int64  `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Role    Role   `json:"role" bson:"role"`
	Pass    string `json:"pass" bson:"pass"`       // хранится открытым текстом
	Rewards int    `json:"rewards" bson:"rewards"` // баллы
}

// Заявка на вывоз
type Booking struct {
	ID     int64  `json:"id"`
	UID    int64  `json:"uid"`
	Date   string `json:"date"`
	Type   string `json:"type"`
	Freq   string `json:"freq"`
	Addr   string `json:"addr"`
	Status string `json:"status"`
}

// Платеж
type Transaction struct {
	ID      int64  `json:"id"`
	UID     int64  `json:"uid"`
	Purpose string `json:"purpose"`
	Amount  int    `json:"amount"`
	TS      int64  `json:"ts"` // unix ms
}

// Запись о сборе отходов
type Capture struct {
	ID   int64   `json:"id"`
	UID  int64   `json:"uid"`
	Date string  `json:"date"`
	Type string  `json:"type"`
	Kg   float64 `json:"kg"`
}

type Notification struct {
	ID   int64  `json:"id"`
	UID  int64  `json:"uid"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

// Обращение в поддержку
type Ticket struct {
	ID   int64  `json:"id"`
	UID  int64  `json:"uid"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

type Facility struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Distance string `json:"distance"`
}

// Учебный модуль
type TrainingModule struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Mins  int    `json:"mins"`
	Done  bool   `json:"done"`
}

const (
	EventNotification = "notification"
	EventTicket       = "ticket"
)

// Событие для внешних получателей (kafka, rabbitmq)
type Event struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
	UID  int64  `json:"uid"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}
