package entities

import "time"

// Project is one shipment line. Required columns are NOT NULL; the logistics
// columns stay nil until a Quick PI or a logistics import fills them.
type Project struct {
	ProjectID      string  `gorm:"primaryKey;column:project_id" json:"project_id"`
	DGWPIC         string  `gorm:"column:dgw_pic;not null" json:"dgw_pic"`
	AsusPIC        string  `gorm:"column:asus_pic;not null" json:"asus_pic"`
	PartNumber     *string `gorm:"column:partnumber" json:"partnumber"`
	SKUCode        string  `gorm:"column:sku_code;not null" json:"sku_code"`
	Qty            int     `gorm:"column:qty;not null" json:"qty"`
	PriceVND       float64 `gorm:"column:price_vnd;not null" json:"price_vnd"`
	AsusOrderEmail *string `gorm:"column:asus_order_email" json:"asus_order_email"`
	SI             string  `gorm:"column:si;not null" json:"si"`
	EU             string  `gorm:"column:eu;not null" json:"eu"`

	PINo              *string `gorm:"column:pi_no;index" json:"pi_no"`
	BillNo            *string `gorm:"column:bill_no" json:"bill_no"`
	LotNo             *string `gorm:"column:lot_no" json:"lot_no"`
	DeclarationNo     *string `gorm:"column:declaration_no" json:"declaration_no"`
	S4InWarehouseDate *string `gorm:"column:s4_in_warehouse_date" json:"s4_in_warehouse_date"` // dd/mm/yyyy
	S4ArrivalPortDate *string `gorm:"column:s4_arrival_port_date" json:"s4_arrival_port_date"` // dd/mm/yyyy
	S4DepartureDate   *string `gorm:"column:s4_departure_date" json:"s4_departure_date"`       // dd/mm/yyyy

	RowCreatedAt time.Time `gorm:"column:row_created_at;not null;index" json:"row_created_at"`

	Logs []StatusLog `gorm:"foreignKey:ProjectID;references:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// StatusLog is append-only; rows go away only with their project.
type StatusLog struct {
	LogID      uint      `gorm:"primaryKey;autoIncrement;column:log_id" json:"log_id"`
	ProjectID  string    `gorm:"column:project_id;not null;index" json:"project_id"`
	StatusText string    `gorm:"column:status_text;not null" json:"status_text"`
	Note       *string   `gorm:"column:note" json:"note"`
	UpdatedBy  string    `gorm:"column:updated_by;not null" json:"updated_by"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
}
