package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gerry1Laxy/orders-backend/internal/api/dto"
	"github.com/Gerry1Laxy/orders-backend/internal/middleware"
	"github.com/Gerry1Laxy/orders-backend/internal/service"
)

// ==================== UserController 用户控制器 ====================

// UserController 用户控制器
type UserController struct {
	userService *service.UserService
}

// NewUserController 创建用户控制器
func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// ==================== 注册与确认 ====================

// Register 注册新账号
// @Summary 注册新账号
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "注册信息"
// @Success 200 {object} dto.UserInfo
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /user/register [post]
func (c *UserController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	user, err := c.userService.Register(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			ctx.JSON(http.StatusConflict, gin.H{
				"code":    409,
				"message": err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "注册成功，请查收确认邮件",
		"data":    user,
	})
}

// ConfirmEmail 确认邮箱激活账号
// @Summary 确认邮箱激活账号
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.ConfirmEmailRequest true "邮箱与确认令牌"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /user/register/confirm [post]
func (c *UserController) ConfirmEmail(ctx *gin.Context) {
	var req dto.ConfirmEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	if err := c.userService.ConfirmEmail(ctx.Request.Context(), &req); err != nil {
		if errors.Is(err, service.ErrConfirmTokenBad) {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "账号已激活",
	})
}

// ==================== 登录 ====================

// Login 邮箱密码登录
// @Summary 邮箱密码登录
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /user/login [post]
func (c *UserController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	resp, err := c.userService.Login(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "登录成功",
		"data":    resp,
	})
}

// RefreshToken 刷新 Token
// @Summary 刷新 Token
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /user/refresh [post]
func (c *UserController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	resp, err := c.userService.RefreshToken(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "刷新成功",
		"data":    resp,
	})
}

// ==================== 资料 ====================

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserInfo
// @Failure 401 {object} map[string]interface{}
// @Router /user/details [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)

	user, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": user,
	})
}

// UpdateProfile 更新当前用户信息
// @Summary 更新当前用户信息
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "资料字段，省略则不变"
// @Success 200 {object} dto.UserInfo
// @Failure 400 {object} map[string]interface{}
// @Router /user/details [post]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(ctx)

	user, err := c.userService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "资料已更新",
		"data":    user,
	})
}

// ==================== 联系方式 ====================

// ListContacts 联系方式列表
// @Summary 联系方式列表
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ContactVO
// @Router /user/contact [get]
func (c *UserController) ListContacts(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)

	contacts, err := c.userService.ListContacts(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": contacts,
	})
}

// CreateContact 新增联系方式
// @Summary 新增联系方式
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ContactRequest true "联系方式"
// @Success 200 {object} dto.ContactVO
// @Failure 400 {object} map[string]interface{}
// @Router /user/contact [post]
func (c *UserController) CreateContact(ctx *gin.Context) {
	var req dto.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(ctx)

	contact, err := c.userService.CreateContact(ctx.Request.Context(), userID, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "联系方式已添加",
		"data":    contact,
	})
}

// UpdateContact 更新联系方式
// @Summary 更新联系方式
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ContactRequest true "联系方式，需带 id"
// @Success 200 {object} dto.ContactVO
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /user/contact [put]
func (c *UserController) UpdateContact(ctx *gin.Context) {
	var req dto.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(ctx)

	contact, err := c.userService.UpdateContact(ctx.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "联系方式已更新",
		"data":    contact,
	})
}

// DeleteContact 删除联系方式
// @Summary 删除联系方式
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param id path int true "联系方式 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /user/contact/{id} [delete]
func (c *UserController) DeleteContact(ctx *gin.Context) {
	contactID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "非法的联系方式 ID",
		})
		return
	}

	userID := middleware.GetUserID(ctx)

	if err := c.userService.DeleteContact(ctx.Request.Context(), userID, contactID); err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "联系方式已删除",
	})
}
