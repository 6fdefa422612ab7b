package headermap

// Project-Add canonical fields.
const (
	DGWPIC         = "dgw_pic"
	AsusPIC        = "asus_pic"
	PartNumber     = "partnumber"
	SKUCode        = "sku_code"
	Qty            = "qty"
	PriceVND       = "price_vnd"
	AsusOrderEmail = "asus_order_email"
	SI             = "si"
	EU             = "eu"
)

// Logistics canonical fields.
const (
	PI                = "pi"
	Bill              = "bill"
	S4ArrivalPortDate = "s4_arrival_port_date"
	S4InWarehouseDate = "s4_in_warehouse_date"
	S4DepartureDate   = "s4_departure_date"
	DeclarationNo     = "declaration_no"
	LotNo             = "lot_no"
)

var ProjectAdd = Schema{
	Name: "project",
	Fields: []Field{
		{Name: DGWPIC, Required: true, Aliases: []string{"dgw pic", "dgw_pic"}},
		{Name: AsusPIC, Required: true, Aliases: []string{"asus pic", "asus_pic"}},
		{Name: PartNumber, Aliases: []string{"part number", "partnumber", "part_number", "p/n"}},
		{Name: SKUCode, Required: true, Aliases: []string{"mã hàng", "ma hang", "sku_code", "sku", "sku code"}},
		{Name: Qty, Required: true, Aliases: []string{"số lượng", "so luong", "qty", "quantity"}},
		{Name: PriceVND, Required: true, Aliases: []string{"đơn giá fv", "don gia fv", "price_vnd", "price", "unit price", "gia", "giá"}},
		{Name: AsusOrderEmail, Aliases: []string{"mail nhận đơn hàng từ asus", "mail nhan don hang tu asus", "asus_order_email", "order email"}},
		{Name: SI, Required: true, Aliases: []string{"si"}},
		{Name: EU, Required: true, Aliases: []string{"eu"}},
	},
}

// Logistics has no required field: a row without PI is skipped on its own.
var Logistics = Schema{
	Name: "logistics",
	Fields: []Field{
		{Name: PI, Aliases: []string{"hợp đồng/ số po nk", "hop dong/ so po nk", "hop dong / so po nk", "hợp đồng / số po nk", "so po nk", "số po nk", "pi", "số pi", "so pi", "pi no", "pi_no"}},
		{Name: Bill, Aliases: []string{"bill of lading", "bill", "vận đơn", "van don", "bill_no"}},
		{Name: S4ArrivalPortDate, Aliases: []string{"ngày đến cảng", "ngay den cang", "s4_arrival_port_date", "s4 cập cảng", "arrival port date"}},
		{Name: S4InWarehouseDate, Aliases: []string{"ngày đến kho", "ngay den kho", "s4_in_warehouse_date", "s4 đến kho", "in warehouse date"}},
		{Name: S4DepartureDate, Aliases: []string{"ngày khởi hành", "ngay khoi hanh", "s4_departure_date", "s4 đi", "departure date"}},
		{Name: DeclarationNo, Aliases: []string{"số tờ khai", "so to khai", "declaration_no", "declaration no"}},
		{Name: LotNo, Aliases: []string{"số lô", "so lo", "lot_no", "lot no"}},
	},
}
