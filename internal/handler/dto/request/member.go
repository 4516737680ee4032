package request

import (
	"campus-library/internal/domain/member"
)

type CreateMemberRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

func (r *CreateMemberRequest) ToDomain() (*member.Member, error) {
	return member.NewMember(r.Name, r.Email, r.Phone)
}

type ListMembersRequest struct {
	Page  int32 `form:"page,default=1" binding:"omitempty,min=1"`
	Limit int32 `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

type UpdateMemberRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Status   string `json:"status" binding:"required,oneof=active suspended inactive"`
	MaxLoans int32  `json:"max_loans" binding:"required,min=1,max=50"`
}
