package code

import "net/http"

var (
	Success = NewSuss(1, http.StatusOK, lang{en: "Success", zh_cn: "成功"})
	Created = NewSuss(2, http.StatusCreated, lang{en: "Created", zh_cn: "创建成功"})
	Deleted = NewSuss(3, http.StatusNoContent, lang{en: "Deleted", zh_cn: "删除成功"})

	// 400
	ErrorInvalidParams    = NewError(400001, http.StatusBadRequest, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorInvalidJSON      = NewError(400002, http.StatusBadRequest, lang{en: "Malformed request body", zh_cn: "请求体格式错误"})
	ErrorDuplicateID      = NewError(400003, http.StatusBadRequest, lang{en: "An object with this id already exists.", zh_cn: "该 id 已存在"})
	ErrorUserEmailExists  = NewError(400004, http.StatusBadRequest, lang{en: "user with this email already exists.", zh_cn: "该邮箱已被注册"})
	ErrorPasswordNotValid = NewError(400005, http.StatusBadRequest, lang{en: "This password is not valid.", zh_cn: "密码不符合要求"})
	ErrorUserOldPassword  = NewError(400006, http.StatusBadRequest, lang{en: "Old password is incorrect.", zh_cn: "旧密码错误"})

	// 401
	ErrorNotUserAuthToken        = NewError(401001, http.StatusUnauthorized, lang{en: "Authentication credentials were not provided.", zh_cn: "未提供认证凭证"})
	ErrorInvalidUserAuthToken    = NewError(401002, http.StatusUnauthorized, lang{en: "Given token not valid for any token type", zh_cn: "认证凭证无效或已过期"})
	ErrorInvalidRefreshToken     = NewError(401003, http.StatusUnauthorized, lang{en: "Token is invalid or expired", zh_cn: "刷新凭证无效或已过期"})
	ErrorUserLoginPasswordFailed = NewError(401004, http.StatusUnauthorized, lang{en: "No active account found with the given credentials", zh_cn: "账号或密码错误"})

	// 403
	ErrorUserRegisterIsDisable = NewError(403001, http.StatusForbidden, lang{en: "Registration is disabled.", zh_cn: "注册已关闭"})

	// 404
	ErrorNotFound    = NewError(404001, http.StatusNotFound, lang{en: "Not found.", zh_cn: "未找到"})
	ErrorNotFoundAPI = NewError(404002, http.StatusNotFound, lang{en: "API not found", zh_cn: "接口不存在"})

	// 429
	ErrorTooManyRequests = NewError(429001, http.StatusTooManyRequests, lang{en: "Request was throttled.", zh_cn: "请求过于频繁"})

	// 500
	ErrorServerInternal = NewError(500001, http.StatusInternalServerError, lang{en: "Internal Server Error", zh_cn: "服务器内部错误"})
	ErrorDBQuery        = NewError(500002, http.StatusInternalServerError, lang{en: "Database query failed", zh_cn: "数据库查询失败"})
	ErrorDBWrite        = NewError(500003, http.StatusInternalServerError, lang{en: "Database write failed", zh_cn: "数据库写入失败"})
	ErrorTokenGenerate  = NewError(500004, http.StatusInternalServerError, lang{en: "Failed to generate token", zh_cn: "生成凭证失败"})
	ErrorServerBusy     = NewError(503001, http.StatusServiceUnavailable, lang{en: "Server is busy, please retry", zh_cn: "服务繁忙，请重试"})
)
