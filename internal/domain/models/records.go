package models

import "time"

// OrderStatus is the processing stage of a paddy intake order. Stages move
// forward by hand; nothing transitions automatically.
type OrderStatus string

const (
	OrderCreated           OrderStatus = "CREATED"
	OrderInitialStocking   OrderStatus = "INITIAL STOCKING"
	OrderBoilingCompleted  OrderStatus = "BOILING PROCESS COMPLETED"
	OrderSplittingComplete OrderStatus = "SPLITTING PROCESS COMPLETED"
	OrderPackedReady       OrderStatus = "PACKED & READY"
	OrderPaidClosed        OrderStatus = "PAID & CLOSE"
)

// OrderStatuses lists the stages in their intended order.
var OrderStatuses = []OrderStatus{
	OrderCreated,
	OrderInitialStocking,
	OrderBoilingCompleted,
	OrderSplittingComplete,
	OrderPackedReady,
	OrderPaidClosed,
}

// Valid reports set membership only; any stage may follow any other.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is a paddy processing job taken in from a farmer.
type Order struct {
	ID            string      `bson:"_id" json:"_id"`
	ClientID      string      `bson:"clientId" json:"clientId"`
	Name          string      `bson:"name" json:"name"`
	VillageName   string      `bson:"villageName" json:"villageName"`
	Address       string      `bson:"address" json:"address"`
	PhoneNumber   string      `bson:"phoneNumber" json:"phoneNumber"`
	NumberOfBags  float64     `bson:"numberOfBags" json:"numberOfBags"`
	TotalAmount   float64     `bson:"totalAmount" json:"totalAmount"`
	AdvanceAmount float64     `bson:"advanceAmount" json:"advanceAmount"`
	TypeOfPaddy   string      `bson:"typeOfPaddy" json:"typeOfPaddy"`
	Status        OrderStatus `bson:"status" json:"status"`
	CreatedAt     time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// WorkType is the mill stage a wage was paid for.
type WorkType string

const (
	WorkBoiling   WorkType = "boiling"
	WorkSplitting WorkType = "splitting"
	WorkOther     WorkType = "other"
)

// MachineType is the machine a wage worker operated.
type MachineType string

const (
	MachineElectric MachineType = "Electric"
	MachineManual   MachineType = "Manual"
	MachineHybrid   MachineType = "Hybrid"
)

// Wage is a piece-work payment to an employee.
type Wage struct {
	ID           string      `bson:"_id" json:"_id"`
	ClientID     string      `bson:"clientId" json:"clientId"`
	EmployeeID   string      `bson:"employeeId" json:"employeeId"`
	EmployeeName string      `bson:"employeeName" json:"employeeName"`
	AdvanceWage  float64     `bson:"advanceWage" json:"advanceWage"`
	TotalWage    float64     `bson:"totalWage" json:"totalWage"`
	BalanceWage  float64     `bson:"balanceWage" json:"balanceWage"`
	TypeOfWork   WorkType    `bson:"typeOfWork" json:"typeOfWork"`
	MachineType  MachineType `bson:"machineType" json:"machineType"`
	Date         time.Time   `bson:"date" json:"date"`
	CreatedAt    time.Time   `bson:"createdAt" json:"createdAt"`
}

// Expense is an operating cost outside wages and salaries.
type Expense struct {
	ID            string        `bson:"_id" json:"_id"`
	ClientID      string        `bson:"clientId" json:"clientId"`
	Item          string        `bson:"item" json:"item"`
	Description   string        `bson:"description,omitempty" json:"description,omitempty"`
	Amount        float64       `bson:"amount" json:"amount"`
	Category      string        `bson:"category" json:"category"`
	Date          time.Time     `bson:"date" json:"date"`
	PaymentMethod PaymentMethod `bson:"paymentMethod" json:"paymentMethod"`
	ReceiptNumber string        `bson:"receiptNumber,omitempty" json:"receiptNumber,omitempty"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
}

// Employee is a salaried member of staff.
type Employee struct {
	ID                     string    `bson:"_id" json:"_id"`
	ClientID               string    `bson:"clientId" json:"clientId"`
	Name                   string    `bson:"name" json:"name"`
	Gender                 string    `bson:"gender" json:"gender"`
	Address                string    `bson:"address" json:"address"`
	DateOfBirth            time.Time `bson:"dob" json:"dob"`
	PhoneNumber            string    `bson:"phoneNumber" json:"phoneNumber"`
	EmergencyContactNumber string    `bson:"emergencyContactNumber" json:"emergencyContactNumber"`
	MaritalStatus          string    `bson:"maritalStatus" json:"maritalStatus"`
	Salary                 float64   `bson:"salary" json:"salary"`
	IsActive               bool      `bson:"isActive" json:"isActive"`
	CreatedAt              time.Time `bson:"createdAt" json:"createdAt"`
}
