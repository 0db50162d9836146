package dto

// ── 账户模块 DTO ──

// CreateAdminRequest 创建管理员
type CreateAdminRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name"  binding:"required,max=100"`
	Email     string `json:"email"      binding:"required,email,max=255"`
	Password  string `json:"password"   binding:"required,strong_password"`
	IsActive  bool   `json:"is_active"`
}

// UpdateAdminRequest 更新管理员（字段均可选）
type UpdateAdminRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name"  binding:"omitempty,min=1,max=100"`
	Email     *string `json:"email"      binding:"omitempty,email,max=255"`
	Password  *string `json:"password"   binding:"omitempty,strong_password"`
	IsActive  *bool   `json:"is_active"`
}

// InstructorRegistrationRequest 讲师自助注册
type InstructorRegistrationRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name"  binding:"required,max=100"`
	Email     string `json:"email"      binding:"required,email,max=255"`
	Password  string `json:"password"   binding:"required,strong_password"`
	Position  string `json:"position"   binding:"required,max=100"`
}

// StudentRegistrationRequest 学生自助注册
type StudentRegistrationRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name"  binding:"required,max=100"`
	Email     string `json:"email"      binding:"required,email,max=255"`
	Password  string `json:"password"   binding:"required,strong_password"`
	BirthDate string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"` // YYYY-MM-DD
}

// UpdateStatusRequest 启用/停用账户
type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// AccountListRequest 账户列表查询参数
type AccountListRequest struct {
	PaginationRequest
	IsActive *bool  `form:"is_active"`
	Keyword  string `form:"keyword"   binding:"omitempty,max=50"`
}
