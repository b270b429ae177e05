package entity

// User is the server-validated identity a request is made with.
type User struct {
	ID       int     `db:"id" json:"id"`
	LoginID  string  `db:"user_id" json:"userId"`
	RoleCode int     `db:"role_id_total" json:"roleIdTotal"`
	ShopID   *int    `db:"shop_id" json:"shopId,omitempty"`
	ShopName *string `db:"shop_name" json:"shopName,omitempty"`
}

// HasShopID reports whether the user carries exactly the given shop id.
func (u *User) HasShopID(id int) bool {
	return u.ShopID != nil && *u.ShopID == id
}

// OwnShopName returns the user's shop name or an empty string.
func (u *User) OwnShopName() string {
	if u.ShopName == nil {
		return ""
	}
	return *u.ShopName
}

type Role string

const (
	RoleAdmin           Role = "admin"
	RoleRegionalManager Role = "regional_manager"
	RoleManager         Role = "manager"
	RoleEmployee        Role = "employee"
)

var roleNames = map[Role]string{
	RoleAdmin:           "管理员",
	RoleRegionalManager: "区域经理",
	RoleManager:         "店长",
	RoleEmployee:        "员工",
}

// DisplayName returns the label shown for the role in the dashboard.
func (r Role) DisplayName() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "未知"
}
