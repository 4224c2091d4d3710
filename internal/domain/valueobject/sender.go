package valueobject

// SenderType 发送者类型
type SenderType string

const (
	SenderTypeCustomer     SenderType = "customer"
	SenderTypeSupportAgent SenderType = "support_agent"
)

// Sender 发送者值对象（不可变）
type Sender struct {
	id         string
	name       string
	senderType SenderType
}

// NewSender 创建发送者值对象
func NewSender(id, name string, senderType SenderType) Sender {
	return Sender{
		id:         id,
		name:       name,
		senderType: senderType,
	}
}

// ID 返回发送者ID
func (s Sender) ID() string {
	return s.id
}

// Name 返回展示名称
func (s Sender) Name() string {
	return s.name
}

// Type 返回发送者类型
func (s Sender) Type() SenderType {
	return s.senderType
}

// IsCustomer 判断是否为客户（业务规则）
func (s Sender) IsCustomer() bool {
	return s.senderType == SenderTypeCustomer
}

// IsSupportAgent 判断是否为客服（业务规则）
func (s Sender) IsSupportAgent() bool {
	return s.senderType == SenderTypeSupportAgent
}

// Equals 值对象相等性比较
func (s Sender) Equals(other Sender) bool {
	return s.id == other.id && s.name == other.name && s.senderType == other.senderType
}
