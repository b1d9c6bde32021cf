package application

// OrderFact 是评估优惠券资格时的订单事实
type OrderFact struct {
	Preset      string `json:"preset"`
	Quantity    int    `json:"quantity"`
	Occasion    string `json:"occasion"`
	AmountCents int64  `json:"amountCents"`
}

// FreezeCouponRequest 冻结优惠券
type FreezeCouponRequest struct {
	CouponCode string    `json:"couponCode"`
	OrderID    string    `json:"orderId"`
	Fact       OrderFact `json:"fact"`
}

// FreezeCouponResponse 返回折扣结果
type FreezeCouponResponse struct {
	Success       bool   `json:"success"`
	DiscountCents int64  `json:"discountCents"`
	PayableCents  int64  `json:"payableCents"`
	Message       string `json:"message"`
}

// CouponOrderRequest 核销或回滚时只需要券码与订单号
type CouponOrderRequest struct {
	CouponCode string `json:"couponCode"`
	OrderID    string `json:"orderId"`
}

// PreviewCouponRequest 预览折扣，不改变券的状态
type PreviewCouponRequest struct {
	CouponCode string    `json:"couponCode"`
	Fact       OrderFact `json:"fact"`
}

// PreviewCouponResponse 是预览结果
type PreviewCouponResponse struct {
	Eligible      bool   `json:"eligible"`
	DiscountCents int64  `json:"discountCents"`
	Message       string `json:"message,omitempty"`
}
