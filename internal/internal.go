package internal

const COOKIE_ACCESS_TOKEN_NAME = "boohk_access_token"
