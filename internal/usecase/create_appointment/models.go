package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Request модель запроса на создание записи.
// Дата, слот и состояние автомобиля приходят строками и проверяются в usecase.
type Request struct {
	ClientName string   // Имя клиента
	Email      string   // Email для подтверждения
	Vehicle    string   // Описание автомобиля ("2019 Honda Civic")
	Condition  string   // Состояние автомобиля (domain.VehicleCondition)
	PackageID  string   // Пакет услуг (название из каталога)
	AddonIDs   []string // Дополнительные опции
	Date       string   // Дата в формате YYYY-MM-DD
	Slot       string   // morning | afternoon (или AM | PM)
	AccountID  *string  // Аккаунт клиента, nil для гостевой записи
}

// Response модель ответа с созданной записью
type Response struct {
	ID         string     // ID записи
	ClientName string     // Имя клиента
	Email      string     // Email
	Vehicle    string     // Автомобиль
	Condition  string     // Состояние автомобиля
	PackageID  string     // Пакет
	AddonIDs   []string   // Опции без повторов
	Date       types.Date // Дата
	Slot       string     // Слот
	SlotLabel  string     // Время слота для клиента
	TotalPrice int64      // Итоговая стоимость
	Status     string     // Статус (pending)
	AccountID  *string    // Аккаунт клиента
	CreatedAt  time.Time  // Время создания
}
