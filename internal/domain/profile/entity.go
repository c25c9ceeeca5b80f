package profile

// Profile 用户收货/联系资料
// 与User一对一；结算时把地址字段快照进订单，之后修改资料不影响历史订单
type Profile struct {
	UserID    uint
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Address   string
	City      string
	State     string
	Zip       string
}

// NewEmptyProfile 注册时为用户创建的空资料
func NewEmptyProfile(userID uint) *Profile {
	return &Profile{UserID: userID}
}

// ShippingAddress 收货地址快照
type ShippingAddress struct {
	Address string
	City    string
	State   string
	Zip     string
}

// ShippingAddress 取出当前地址的快照（值拷贝）
func (p *Profile) ShippingAddress() ShippingAddress {
	return ShippingAddress{
		Address: p.Address,
		City:    p.City,
		State:   p.State,
		Zip:     p.Zip,
	}
}
